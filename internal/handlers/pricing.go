// internal/handlers/pricing.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tauro-app/tauro-backend/internal/models"
	"github.com/tauro-app/tauro-backend/internal/services"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

type PricingHandler struct {
	pricingService *services.PricingService
}

type BudgetPayload struct {
	GarmentID   *uuid.UUID `json:"garment_id"`
	GarmentName string     `json:"garment_name" validate:"max=255"`
	SizeGroup   string     `json:"size_group" validate:"required"`
	Quantity    int        `json:"quantity" validate:"gt=0"`
}

func NewPricingHandler(pricingService *services.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// GET /size-groups
func (h *PricingHandler) GetSizeGroups(c *gin.Context) {
	groups := models.AllSizeGroups()
	options := make([]services.SizeGroupOption, 0, len(groups))
	for _, g := range groups {
		options = append(options, services.SizeGroupOption{Value: g, Label: g.Label()})
	}

	utils.SuccessResponse(c, gin.H{
		"size_groups": options,
	})
}

// GET /garments/:id/size-groups
func (h *PricingHandler) GetGarmentSizeGroups(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.listSizeGroups(c, services.GarmentRef{ID: id})
}

// GET /size-groups/by-garment?name=
func (h *PricingHandler) GetSizeGroupsByGarmentName(c *gin.Context) {
	h.listSizeGroups(c, services.GarmentRef{Name: c.Query("name")})
}

func (h *PricingHandler) listSizeGroups(c *gin.Context, ref services.GarmentRef) {
	groups, err := h.pricingService.ListSizeGroups(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"size_groups": groups,
	})
}

// POST /budgets
func (h *PricingHandler) ComputeBudget(c *gin.Context) {
	var payload BudgetPayload
	if !bindJSON(c, &payload) {
		return
	}

	req := services.BudgetRequest{
		Garment:   services.GarmentRef{Name: payload.GarmentName},
		SizeGroup: models.SizeGroup(strings.TrimSpace(payload.SizeGroup)),
		Quantity:  payload.Quantity,
	}
	if payload.GarmentID != nil {
		req.Garment.ID = *payload.GarmentID
	}
	if group, err := models.ParseSizeGroup(payload.SizeGroup); err == nil {
		req.SizeGroup = group
	}

	budget, err := h.pricingService.ComputeBudget(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"budget": budget,
	})
}
