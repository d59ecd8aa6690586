// internal/utils/image_url.go
package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var driveFilePath = regexp.MustCompile(`^/file/d/([A-Za-z0-9_-]+)`)

// NormalizeImageURL rewrites Google Drive share links to the thumbnail
// endpoint so they can be used directly in an <img> tag. Other URLs are
// returned trimmed but otherwise unchanged.
func NormalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Hostname(), "drive.google.com") {
		return raw
	}

	var id string
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		id = m[1]
	} else if u.Path == "/open" || u.Path == "/uc" || u.Path == "/thumbnail" {
		id = u.Query().Get("id")
	}
	if id == "" {
		return raw
	}

	return DriveThumbnailURL(id)
}

func DriveThumbnailURL(fileID string) string {
	return "https://drive.google.com/thumbnail?id=" + url.QueryEscape(fileID) + "&sz=w1000"
}
