// internal/handlers/garment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tauro-app/tauro-backend/internal/i18n"
	"github.com/tauro-app/tauro-backend/internal/services"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

type GarmentHandler struct {
	garmentService *services.GarmentService
	storageService *services.StorageService
}

func NewGarmentHandler(garmentService *services.GarmentService, storageService *services.StorageService) *GarmentHandler {
	return &GarmentHandler{
		garmentService: garmentService,
		storageService: storageService,
	}
}

// GET /garments
func (h *GarmentHandler) GetGarments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	garments, total, err := h.garmentService.ListGarments(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(garments, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /garments/:id
func (h *GarmentHandler) GetGarment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	garment, err := h.garmentService.GetGarment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"garment": garment,
	})
}

// POST /garments
func (h *GarmentHandler) CreateGarment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.GarmentRequest
	if !bindJSON(c, &req) {
		return
	}

	garment, err := h.garmentService.CreateGarment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyGarmentCreated),
		"garment": garment,
	})
}

// PUT /garments/:id
func (h *GarmentHandler) UpdateGarment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.GarmentRequest
	if !bindJSON(c, &req) {
		return
	}

	previous, err := h.garmentService.GetGarment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	garment, err := h.garmentService.UpdateGarment(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Drop the stored file once nothing points at it.
	if previous.ImageURL != nil && (garment.ImageURL == nil || *garment.ImageURL != *previous.ImageURL) {
		h.storageService.ReplaceImage(c.Request.Context(), *previous.ImageURL)
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyGarmentUpdated),
		"garment": garment,
	})
}

// DELETE /garments/:id
func (h *GarmentHandler) DeleteGarment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	garment, err := h.garmentService.GetGarment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.garmentService.DeleteGarment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	if garment.ImageURL != nil {
		h.storageService.ReplaceImage(c.Request.Context(), *garment.ImageURL)
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyGarmentDeleted),
	})
}

// POST /garments/:id/image
func (h *GarmentHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.garmentService.GetGarment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(c.Request.Context(), file, "garments")
	if err != nil {
		respondError(c, err)
		return
	}

	previous, err := h.garmentService.SetImageURL(c.Request.Context(), id, result.URL)
	if err != nil {
		if delErr := h.storageService.DeleteFile(c.Request.Context(), result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).Warn("Failed to clean up orphaned upload")
		}
		respondError(c, err)
		return
	}
	h.storageService.ReplaceImage(c.Request.Context(), previous)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image":   result,
	})
}

// GET /garments/:id/materials
func (h *GarmentHandler) GetGarmentMaterials(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	materials, err := h.garmentService.ListGarmentMaterials(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"materials": materials,
	})
}

// POST /garments/:id/materials
func (h *GarmentHandler) AssignMaterials(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AssignMaterialsRequest
	if !bindJSON(c, &req) {
		return
	}

	assignments, err := h.garmentService.AssignMaterials(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyAssignmentCreated),
		"assignments": assignments,
	})
}

// PUT /garments/:id/materials/:assignmentId
func (h *GarmentHandler) UpdateAssignment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	var req services.UpdateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.garmentService.UpdateAssignment(c.Request.Context(), id, assignmentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAssignmentUpdated),
		"assignment": assignment,
	})
}

// DELETE /garments/:id/materials/:assignmentId
func (h *GarmentHandler) RemoveAssignment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.garmentService.RemoveAssignment(c.Request.Context(), id, assignmentID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssignmentDeleted),
	})
}
