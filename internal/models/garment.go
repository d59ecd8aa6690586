// internal/models/garment.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Garment is a sellable product ("prenda") built from materials.
type Garment struct {
	BaseModel
	Name              string              `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description       string              `json:"description" gorm:"type:text"`
	ManufacturingCost decimal.NullDecimal `json:"manufacturing_cost" gorm:"type:decimal(10,2)"`
	SalePrice         decimal.NullDecimal `json:"sale_price" gorm:"type:decimal(10,2)"`
	ImageURL          *string             `json:"image_url" gorm:"type:text"`

	// Filled by listings only.
	MaterialsCount int64 `json:"materials_count" gorm:"->;-:migration"`
}

// GarmentMaterial binds a material to a garment for one size group.
type GarmentMaterial struct {
	BaseModel
	GarmentID  uuid.UUID       `json:"garment_id" gorm:"type:uuid;not null;index:idx_garment_materials_garment_group,priority:1"`
	MaterialID uuid.UUID       `json:"material_id" gorm:"type:uuid;not null;index"`
	SizeGroup  SizeGroup       `json:"size_group" gorm:"type:varchar(20);not null;index:idx_garment_materials_garment_group,priority:2"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Garment  *Garment  `json:"garment,omitempty" gorm:"foreignKey:GarmentID;constraint:OnDelete:CASCADE"`
	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE"`
}
