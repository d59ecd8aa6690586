// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tauro-app/tauro-backend/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", parseAcceptLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// parseAcceptLanguage maps headers like "en-US,en;q=0.9" to a catalogue
// language, using only the first preference.
func parseAcceptLanguage(header string) string {
	if header == "" {
		return i18n.DefaultLang()
	}

	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	base := strings.ToLower(strings.SplitN(strings.ReplaceAll(first, "_", "-"), "-", 2)[0])

	switch base {
	case "es", "en":
		return base
	default:
		return i18n.DefaultLang()
	}
}
