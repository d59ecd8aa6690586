// internal/models/material.go
package models

import (
	"github.com/shopspring/decimal"
)

type Material struct {
	BaseModel
	Name          string          `json:"name" gorm:"size:255;not null;uniqueIndex"`
	PricePerMeter decimal.Decimal `json:"price_per_meter" gorm:"type:decimal(10,2);not null"`
	Description   string          `json:"description" gorm:"type:text"`
}
