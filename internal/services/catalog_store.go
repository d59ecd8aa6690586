// internal/services/catalog_store.go
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tauro-app/tauro-backend/internal/models"
)

// CatalogStore is the read side of the catalogue used by the pricing engine.
// Lookups return a nil garment or an empty slice when nothing matches; only
// real storage failures are reported as errors.
type CatalogStore interface {
	GetGarmentByID(ctx context.Context, id uuid.UUID) (*models.Garment, error)
	GetGarmentByName(ctx context.Context, name string) (*models.Garment, error)
	GetAssignmentsForGarmentAndGroup(ctx context.Context, garmentID uuid.UUID, group models.SizeGroup) ([]AssignmentLine, error)
	GetDistinctGroupsForGarment(ctx context.Context, garmentID uuid.UUID) ([]models.SizeGroup, error)
}

// AssignmentLine is one material of a garment's bill for a size group.
type AssignmentLine struct {
	AssignmentID uuid.UUID
	MaterialID   uuid.UUID
	MaterialName string
	UnitPrice    decimal.NullDecimal
	UnitQuantity decimal.Decimal
}

type GormCatalogStore struct {
	db *gorm.DB
}

func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

func (s *GormCatalogStore) GetGarmentByID(ctx context.Context, id uuid.UUID) (*models.Garment, error) {
	return s.findGarment(ctx, "id = ?", id)
}

func (s *GormCatalogStore) GetGarmentByName(ctx context.Context, name string) (*models.Garment, error) {
	return s.findGarment(ctx, "name = ?", name)
}

func (s *GormCatalogStore) findGarment(ctx context.Context, query string, arg interface{}) (*models.Garment, error) {
	var garment models.Garment
	res := s.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&garment)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &garment, nil
}

func (s *GormCatalogStore) GetAssignmentsForGarmentAndGroup(ctx context.Context, garmentID uuid.UUID, group models.SizeGroup) ([]AssignmentLine, error) {
	var lines []AssignmentLine
	err := s.db.WithContext(ctx).
		Table("garment_materials AS gm").
		Select("gm.id AS assignment_id, gm.material_id, m.name AS material_name, m.price_per_meter AS unit_price, gm.quantity AS unit_quantity").
		Joins("JOIN materials m ON m.id = gm.material_id").
		Where("gm.garment_id = ? AND gm.size_group = ?", garmentID, string(group)).
		Order("m.name, gm.id").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *GormCatalogStore) GetDistinctGroupsForGarment(ctx context.Context, garmentID uuid.UUID) ([]models.SizeGroup, error) {
	var groups []string
	err := s.db.WithContext(ctx).
		Model(&models.GarmentMaterial{}).
		Where("garment_id = ?", garmentID).
		Distinct().
		Order("size_group").
		Pluck("size_group", &groups).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.SizeGroup, len(groups))
	for i, g := range groups {
		out[i] = models.SizeGroup(g)
	}
	return out, nil
}
