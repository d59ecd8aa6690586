// internal/services/garment_service.go
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

type GarmentService struct {
	db *gorm.DB
}

type GarmentRequest struct {
	Name              string              `json:"name" validate:"required,max=255"`
	Description       string              `json:"description" validate:"max=2000"`
	ManufacturingCost decimal.NullDecimal `json:"manufacturing_cost" validate:"omitempty,gte=0,decimal_10_2"`
	SalePrice         decimal.NullDecimal `json:"sale_price" validate:"omitempty,gte=0,decimal_10_2"`
	ImageURL          string              `json:"image_url" validate:"omitempty,max=2048"`
}

// AssignMaterialsRequest adds several materials to one size group at once.
type AssignMaterialsRequest struct {
	SizeGroup models.SizeGroup `json:"size_group" validate:"required,size_group"`
	Materials []AssignmentItem `json:"materials" validate:"required,min=1,dive"`
}

type AssignmentItem struct {
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0,decimal_10_2"`
}

type UpdateAssignmentRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0,decimal_10_2"`
}

// GarmentMaterialView is an assignment joined with its material.
type GarmentMaterialView struct {
	AssignmentID   uuid.UUID        `json:"assignment_id"`
	MaterialID     uuid.UUID        `json:"material_id"`
	Name           string           `json:"name"`
	PricePerMeter  decimal.Decimal  `json:"price_per_meter"`
	Quantity       decimal.Decimal  `json:"quantity"`
	SizeGroup      models.SizeGroup `json:"size_group"`
	SizeGroupLabel string           `json:"size_group_label" gorm:"-"`
}

func NewGarmentService(db *gorm.DB) *GarmentService {
	return &GarmentService{db: db}
}

const materialsCountColumn = "(SELECT COUNT(*) FROM garment_materials gm WHERE gm.garment_id = garments.id) AS materials_count"

func (s *GarmentService) ListGarments(ctx context.Context, params utils.PaginationParams) ([]models.Garment, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if params.Search != "" {
			return db.Where("LOWER(garments.name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Garment{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, storageError("count garments", err)
	}

	var garments []models.Garment
	query := s.db.WithContext(ctx).Model(&models.Garment{}).
		Select("garments.*, " + materialsCountColumn).
		Scopes(filter)
	query = utils.ApplySort(query, "garments", params, []string{"name", "sale_price", "created_at", "updated_at"})
	if err := utils.ApplyPagination(query, params).Find(&garments).Error; err != nil {
		return nil, 0, storageError("list garments", err)
	}

	return garments, total, nil
}

func (s *GarmentService) GetGarment(ctx context.Context, id uuid.UUID) (*models.Garment, error) {
	return s.getGarment(s.db.WithContext(ctx), id)
}

func (s *GarmentService) getGarment(db *gorm.DB, id uuid.UUID) (*models.Garment, error) {
	var garment models.Garment
	res := db.Model(&models.Garment{}).
		Select("garments.*, "+materialsCountColumn).
		Where("garments.id = ?", id).
		Limit(1).
		Find(&garment)
	if res.Error != nil {
		return nil, storageError("get garment", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrGarmentNotFound
	}
	return &garment, nil
}

func (s *GarmentService) CreateGarment(ctx context.Context, req *GarmentRequest) (*models.Garment, error) {
	name, err := s.validateRequest(ctx, req, uuid.Nil)
	if err != nil {
		return nil, err
	}

	garment := &models.Garment{
		Name:              name,
		Description:       strings.TrimSpace(req.Description),
		ManufacturingCost: req.ManufacturingCost,
		SalePrice:         req.SalePrice,
		ImageURL:          imageURLPtr(req.ImageURL),
	}
	if err := s.db.WithContext(ctx).Create(garment).Error; err != nil {
		return nil, dbError("create garment", err, ErrGarmentExists)
	}

	return garment, nil
}

func (s *GarmentService) UpdateGarment(ctx context.Context, id uuid.UUID, req *GarmentRequest) (*models.Garment, error) {
	garment, err := s.GetGarment(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.validateRequest(ctx, req, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":               name,
		"description":        strings.TrimSpace(req.Description),
		"manufacturing_cost": req.ManufacturingCost,
		"sale_price":         req.SalePrice,
		"image_url":          imageURLPtr(req.ImageURL),
	}
	if err := s.db.WithContext(ctx).Model(&models.Garment{}).Where("id = ?", garment.ID).Updates(updates).Error; err != nil {
		return nil, dbError("update garment", err, ErrGarmentExists)
	}

	return s.GetGarment(ctx, id)
}

// SetImageURL replaces the garment image and returns the previous value.
func (s *GarmentService) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) (string, error) {
	garment, err := s.GetGarment(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&models.Garment{}).Where("id = ?", id).
		Update("image_url", imageURLPtr(imageURL)).Error; err != nil {
		return "", storageError("set garment image", err)
	}

	if garment.ImageURL == nil {
		return "", nil
	}
	return *garment.ImageURL, nil
}

// DeleteGarment removes the garment together with its assignments.
func (s *GarmentService) DeleteGarment(ctx context.Context, id uuid.UUID) error {
	return inTransaction(s.db.WithContext(ctx), "delete garment", func(tx *gorm.DB) error {
		if err := tx.Where("garment_id = ?", id).Delete(&models.GarmentMaterial{}).Error; err != nil {
			return storageError("delete garment assignments", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.Garment{})
		if res.Error != nil {
			return storageError("delete garment", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrGarmentNotFound
		}
		return nil
	})
}

func (s *GarmentService) ListGarmentMaterials(ctx context.Context, garmentID uuid.UUID) ([]GarmentMaterialView, error) {
	if _, err := s.GetGarment(ctx, garmentID); err != nil {
		return nil, err
	}

	var views []GarmentMaterialView
	err := s.db.WithContext(ctx).
		Table("garment_materials AS gm").
		Select("gm.id AS assignment_id, gm.material_id, m.name, m.price_per_meter, gm.quantity, gm.size_group").
		Joins("JOIN materials m ON m.id = gm.material_id").
		Where("gm.garment_id = ?", garmentID).
		Order("m.name, gm.size_group, gm.id").
		Scan(&views).Error
	if err != nil {
		return nil, storageError("list garment materials", err)
	}

	for i := range views {
		views[i].SizeGroupLabel = views[i].SizeGroup.Label()
	}
	return views, nil
}

// AssignMaterials adds every item to the garment's size group in one
// transaction; nothing is written if any material is missing.
func (s *GarmentService) AssignMaterials(ctx context.Context, garmentID uuid.UUID, req *AssignMaterialsRequest) ([]models.GarmentMaterial, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created []models.GarmentMaterial
	err := inTransaction(s.db.WithContext(ctx), "assign garment materials", func(tx *gorm.DB) error {
		if _, err := s.getGarment(tx, garmentID); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(req.Materials))
		seen := make(map[uuid.UUID]bool, len(req.Materials))
		for _, item := range req.Materials {
			if !seen[item.MaterialID] {
				seen[item.MaterialID] = true
				ids = append(ids, item.MaterialID)
			}
		}

		var found int64
		if err := tx.Model(&models.Material{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return storageError("check materials", err)
		}
		if found != int64(len(ids)) {
			return ErrMaterialNotFound
		}

		created = make([]models.GarmentMaterial, 0, len(req.Materials))
		for _, item := range req.Materials {
			created = append(created, models.GarmentMaterial{
				GarmentID:  garmentID,
				MaterialID: item.MaterialID,
				SizeGroup:  req.SizeGroup,
				Quantity:   item.Quantity,
			})
		}
		if err := tx.Create(&created).Error; err != nil {
			return storageError("create garment materials", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *GarmentService) UpdateAssignment(ctx context.Context, garmentID, assignmentID uuid.UUID, req *UpdateAssignmentRequest) (*models.GarmentMaterial, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res := s.db.WithContext(ctx).Model(&models.GarmentMaterial{}).
		Where("id = ? AND garment_id = ?", assignmentID, garmentID).
		Update("quantity", req.Quantity)
	if res.Error != nil {
		return nil, storageError("update garment material", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAssignmentNotFound
	}

	var assignment models.GarmentMaterial
	if err := s.db.WithContext(ctx).Where("id = ?", assignmentID).First(&assignment).Error; err != nil {
		return nil, storageError("reload garment material", err)
	}
	return &assignment, nil
}

func (s *GarmentService) RemoveAssignment(ctx context.Context, garmentID, assignmentID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND garment_id = ?", assignmentID, garmentID).
		Delete(&models.GarmentMaterial{})
	if res.Error != nil {
		return storageError("delete garment material", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (s *GarmentService) validateRequest(ctx context.Context, req *GarmentRequest, exceptID uuid.UUID) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("%w: name is blank", ErrInvalidInput)
	}

	query := s.db.WithContext(ctx).Model(&models.Garment{}).Where("name = ?", name)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return "", storageError("check garment name", err)
	}
	if count > 0 {
		return "", fmt.Errorf("%q: %w", name, ErrGarmentExists)
	}
	return name, nil
}

func imageURLPtr(raw string) *string {
	normalized := utils.NormalizeImageURL(raw)
	if normalized == "" {
		return nil
	}
	return &normalized
}
