// internal/services/pricing_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tauro-app/tauro-backend/internal/config"
	"github.com/tauro-app/tauro-backend/internal/models"
)

// PricingService computes production budgets from the catalogue. It holds no
// mutable state; every call is a pure function of what the store returns.
type PricingService struct {
	store           CatalogStore
	retailMarkup    decimal.Decimal
	wholesaleMarkup decimal.Decimal
	queryTimeout    time.Duration
}

// GarmentRef addresses a garment by id or by its unique name. Exactly one
// must be set.
type GarmentRef struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name,omitempty"`
}

type BudgetRequest struct {
	Garment   GarmentRef
	SizeGroup models.SizeGroup
	Quantity  int
}

type SizeGroupOption struct {
	Value models.SizeGroup `json:"value"`
	Label string           `json:"label"`
}

type BudgetLine struct {
	AssignmentID   uuid.UUID       `json:"assignment_id"`
	MaterialID     uuid.UUID       `json:"material_id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitQuantity   decimal.Decimal `json:"unit_quantity"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
	LineCost       decimal.Decimal `json:"line_cost"`
}

type BudgetResult struct {
	Garment                 *models.Garment  `json:"garment"`
	SizeGroup               models.SizeGroup `json:"size_group"`
	SizeGroupLabel          string           `json:"size_group_label"`
	Quantity                int              `json:"quantity"`
	Materials               []BudgetLine     `json:"materials"`
	TotalMaterialCost       decimal.Decimal  `json:"total_material_cost"`
	UnitMaterialCost        decimal.Decimal  `json:"unit_material_cost"`
	SalePriceUnit           decimal.Decimal  `json:"sale_price_unit"`
	TotalSaleValue          decimal.Decimal  `json:"total_sale_value"`
	EstimatedProfit         decimal.Decimal  `json:"estimated_profit"`
	SuggestedRetailPrice    decimal.Decimal  `json:"suggested_retail_price"`
	SuggestedWholesalePrice decimal.Decimal  `json:"suggested_wholesale_price"`
	RetailMarkup            decimal.Decimal  `json:"retail_markup"`
	WholesaleMarkup         decimal.Decimal  `json:"wholesale_markup"`
}

func NewPricingService(store CatalogStore, cfg config.PricingConfig) *PricingService {
	retail, wholesale := cfg.RetailMarkup, cfg.WholesaleMarkup
	if retail <= 0 {
		retail = config.DefaultRetailMarkup
	}
	if wholesale <= 0 {
		wholesale = config.DefaultWholesaleMarkup
	}

	return &PricingService{
		store:           store,
		retailMarkup:    decimal.NewFromFloat(retail),
		wholesaleMarkup: decimal.NewFromFloat(wholesale),
		queryTimeout:    cfg.QueryTimeout,
	}
}

// ListSizeGroups returns the size groups that have at least one material
// for the garment, smallest sizes first.
func (s *PricingService) ListSizeGroups(ctx context.Context, ref GarmentRef) ([]SizeGroupOption, error) {
	garment, err := s.resolveGarment(ctx, ref)
	if err != nil {
		return nil, err
	}

	qctx, cancel := s.queryContext(ctx)
	defer cancel()

	groups, err := s.store.GetDistinctGroupsForGarment(qctx, garment.ID)
	if err != nil {
		return nil, s.storageFailure("list size groups", err, logrus.Fields{"garment_id": garment.ID})
	}

	models.SortSizeGroups(groups)
	options := make([]SizeGroupOption, 0, len(groups))
	for _, g := range groups {
		options = append(options, SizeGroupOption{Value: g, Label: g.Label()})
	}
	return options, nil
}

// ComputeBudget prices an order of req.Quantity garments for one size group.
// Profit is sale value minus material cost; manufacturing cost is not part
// of it.
func (s *PricingService) ComputeBudget(ctx context.Context, req BudgetRequest) (*BudgetResult, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, req.Quantity)
	}
	if !req.SizeGroup.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSizeGroup, req.SizeGroup)
	}

	garment, err := s.resolveGarment(ctx, req.Garment)
	if err != nil {
		return nil, err
	}

	qctx, cancel := s.queryContext(ctx)
	defer cancel()

	lines, err := s.store.GetAssignmentsForGarmentAndGroup(qctx, garment.ID, req.SizeGroup)
	if err != nil {
		return nil, s.storageFailure("load garment materials", err, logrus.Fields{"garment_id": garment.ID})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s %s: %w", garment.Name, req.SizeGroup, ErrNoMaterialsForGroup)
	}

	result := s.calculate(lines, req.Quantity, garment.SalePrice)
	result.Garment = garment
	result.SizeGroup = req.SizeGroup
	result.SizeGroupLabel = req.SizeGroup.Label()
	return result, nil
}

func (s *PricingService) calculate(lines []AssignmentLine, quantity int, salePrice decimal.NullDecimal) *BudgetResult {
	qty := decimal.NewFromInt(int64(quantity))

	result := &BudgetResult{
		Quantity:        quantity,
		Materials:       make([]BudgetLine, 0, len(lines)),
		RetailMarkup:    s.retailMarkup,
		WholesaleMarkup: s.wholesaleMarkup,
	}

	total := decimal.Zero
	for _, line := range lines {
		// A missing price counts as zero.
		price := decimal.Zero
		if line.UnitPrice.Valid {
			price = line.UnitPrice.Decimal
		}

		needed := line.UnitQuantity.Mul(qty)
		cost := needed.Mul(price)
		total = total.Add(cost)

		result.Materials = append(result.Materials, BudgetLine{
			AssignmentID:   line.AssignmentID,
			MaterialID:     line.MaterialID,
			Name:           line.MaterialName,
			UnitPrice:      price,
			UnitQuantity:   line.UnitQuantity,
			QuantityNeeded: needed,
			LineCost:       cost,
		})
	}

	unitCost := total.Div(qty)

	salePriceUnit := decimal.Zero
	if salePrice.Valid {
		salePriceUnit = salePrice.Decimal
	}
	saleValue := salePriceUnit.Mul(qty)

	result.TotalMaterialCost = total
	result.UnitMaterialCost = unitCost
	result.SalePriceUnit = salePriceUnit
	result.TotalSaleValue = saleValue
	result.EstimatedProfit = saleValue.Sub(total)
	result.SuggestedRetailPrice = unitCost.Mul(s.retailMarkup)
	result.SuggestedWholesalePrice = unitCost.Mul(s.wholesaleMarkup)
	return result
}

// resolveGarment looks the garment up before any material query runs.
func (s *PricingService) resolveGarment(ctx context.Context, ref GarmentRef) (*models.Garment, error) {
	name := strings.TrimSpace(ref.Name)
	hasID := ref.ID != uuid.Nil
	if hasID == (name != "") {
		return nil, ErrInvalidGarmentRef
	}

	qctx, cancel := s.queryContext(ctx)
	defer cancel()

	var (
		garment *models.Garment
		err     error
	)
	if hasID {
		garment, err = s.store.GetGarmentByID(qctx, ref.ID)
	} else {
		garment, err = s.store.GetGarmentByName(qctx, name)
	}
	if err != nil {
		fields := logrus.Fields{"garment_name": name}
		if hasID {
			fields = logrus.Fields{"garment_id": ref.ID}
		}
		return nil, s.storageFailure("load garment", err, fields)
	}
	if garment == nil {
		if hasID {
			return nil, fmt.Errorf("%s: %w", ref.ID, ErrGarmentNotFound)
		}
		return nil, fmt.Errorf("%q: %w", name, ErrGarmentNotFound)
	}
	return garment, nil
}

func (s *PricingService) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *PricingService) storageFailure(op string, err error, fields logrus.Fields) error {
	logrus.WithError(err).WithFields(fields).WithField("op", op).Error("Pricing store call failed")
	return storageError(op, err)
}
