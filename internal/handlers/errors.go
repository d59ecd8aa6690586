// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tauro-app/tauro-backend/internal/i18n"
	"github.com/tauro-app/tauro-backend/internal/services"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNoMaterialsForGroup):
		utils.NotFoundResponse(c, i18n.KeyBudgetNoMaterials)
	case errors.Is(err, services.ErrGarmentNotFound):
		utils.NotFoundResponse(c, i18n.KeyGarmentNotFound)
	case errors.Is(err, services.ErrMaterialNotFound):
		utils.NotFoundResponse(c, i18n.KeyMaterialNotFound)
	case errors.Is(err, services.ErrAssignmentNotFound):
		utils.NotFoundResponse(c, i18n.KeyAssignmentNotFound)
	case errors.Is(err, services.ErrGarmentExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyGarmentExists))
	case errors.Is(err, services.ErrMaterialExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyMaterialExists))
	case errors.Is(err, services.ErrImageTooLarge), errors.Is(err, services.ErrUnsupportedType):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidImage), err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrStorageUnavailable):
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Storage unavailable")
		utils.ServiceUnavailableResponse(c, "")
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes and validates the body, writing the error response itself.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidID), nil)
		return uuid.Nil, false
	}
	return id, true
}
