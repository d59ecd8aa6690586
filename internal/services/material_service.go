// internal/services/material_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tauro-app/tauro-backend/internal/models"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

type MaterialService struct {
	db *gorm.DB
}

type MaterialRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	PricePerMeter *decimal.Decimal `json:"price_per_meter" validate:"required,gte=0,decimal_10_2"`
	Description   string           `json:"description" validate:"max=2000"`
}

func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db}
}

func (s *MaterialService) ListMaterials(ctx context.Context, params utils.PaginationParams) ([]models.Material, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Material{})
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count materials", err)
	}

	var materials []models.Material
	query = utils.ApplySort(query, "materials", params, []string{"name", "price_per_meter", "created_at", "updated_at"})
	if err := utils.ApplyPagination(query, params).Find(&materials).Error; err != nil {
		return nil, 0, storageError("list materials", err)
	}

	return materials, total, nil
}

func (s *MaterialService) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	res := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&material)
	if res.Error != nil {
		return nil, storageError("get material", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrMaterialNotFound
	}
	return &material, nil
}

func (s *MaterialService) CreateMaterial(ctx context.Context, req *MaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is blank", ErrInvalidInput)
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	material := &models.Material{
		Name:          name,
		PricePerMeter: *req.PricePerMeter,
		Description:   strings.TrimSpace(req.Description),
	}
	if err := s.db.WithContext(ctx).Create(material).Error; err != nil {
		return nil, dbError("create material", err, ErrMaterialExists)
	}

	return material, nil
}

func (s *MaterialService) UpdateMaterial(ctx context.Context, id uuid.UUID, req *MaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	material, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is blank", ErrInvalidInput)
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":            name,
		"price_per_meter": *req.PricePerMeter,
		"description":     strings.TrimSpace(req.Description),
	}
	if err := s.db.WithContext(ctx).Model(material).Updates(updates).Error; err != nil {
		return nil, dbError("update material", err, ErrMaterialExists)
	}

	return s.GetMaterial(ctx, id)
}

// DeleteMaterial removes the material and every garment assignment using it.
func (s *MaterialService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return inTransaction(s.db.WithContext(ctx), "delete material", func(tx *gorm.DB) error {
		if err := tx.Where("material_id = ?", id).Delete(&models.GarmentMaterial{}).Error; err != nil {
			return storageError("delete material assignments", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Material{})
		if res.Error != nil {
			return storageError("delete material", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrMaterialNotFound
		}
		return nil
	})
}

func (s *MaterialService) ensureNameFree(ctx context.Context, name string, exceptID uuid.UUID) error {
	query := s.db.WithContext(ctx).Model(&models.Material{}).Where("name = ?", name)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return storageError("check material name", err)
	}
	if count > 0 {
		return fmt.Errorf("%q: %w", name, ErrMaterialExists)
	}
	return nil
}
