// internal/handlers/material.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tauro-app/tauro-backend/internal/i18n"
	"github.com/tauro-app/tauro-backend/internal/services"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

type MaterialHandler struct {
	materialService *services.MaterialService
}

func NewMaterialHandler(materialService *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// GET /materials
func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	materials, total, err := h.materialService.ListMaterials(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(materials, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /materials/:id
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	material, err := h.materialService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"material": material,
	})
}

// POST /materials
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.MaterialRequest
	if !bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.CreateMaterial(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyMaterialCreated),
		"material": material,
	})
}

// PUT /materials/:id
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.MaterialRequest
	if !bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.UpdateMaterial(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyMaterialUpdated),
		"material": material,
	})
}

// DELETE /materials/:id
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.materialService.DeleteMaterial(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyMaterialDeleted),
	})
}
