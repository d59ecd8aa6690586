package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauro-app/tauro-backend/internal/config"
	"github.com/tauro-app/tauro-backend/internal/models"
)

type fakeStore struct {
	garments    []models.Garment
	lines       map[uuid.UUID]map[models.SizeGroup][]AssignmentLine
	err         error
	block       bool
	lineQueries int
}

func newFakeStore() *fakeStore {
	return &fakeStore{lines: map[uuid.UUID]map[models.SizeGroup][]AssignmentLine{}}
}

func (f *fakeStore) addGarment(name string, salePrice string) *models.Garment {
	g := models.Garment{Name: name}
	g.ID = uuid.New()
	if salePrice != "" {
		g.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(salePrice))
	}
	f.garments = append(f.garments, g)
	return &f.garments[len(f.garments)-1]
}

func (f *fakeStore) addLine(garmentID uuid.UUID, group models.SizeGroup, name, price, qty string) {
	if f.lines[garmentID] == nil {
		f.lines[garmentID] = map[models.SizeGroup][]AssignmentLine{}
	}
	line := AssignmentLine{
		AssignmentID: uuid.New(),
		MaterialID:   uuid.New(),
		MaterialName: name,
		UnitQuantity: decimal.RequireFromString(qty),
	}
	if price != "" {
		line.UnitPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	f.lines[garmentID][group] = append(f.lines[garmentID][group], line)
}

func (f *fakeStore) wait(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeStore) GetGarmentByID(ctx context.Context, id uuid.UUID) (*models.Garment, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	for i := range f.garments {
		if f.garments[i].ID == id {
			g := f.garments[i]
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetGarmentByName(ctx context.Context, name string) (*models.Garment, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	for i := range f.garments {
		if f.garments[i].Name == name {
			g := f.garments[i]
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetAssignmentsForGarmentAndGroup(ctx context.Context, garmentID uuid.UUID, group models.SizeGroup) ([]AssignmentLine, error) {
	f.lineQueries++
	return f.lines[garmentID][group], nil
}

func (f *fakeStore) GetDistinctGroupsForGarment(ctx context.Context, garmentID uuid.UUID) ([]models.SizeGroup, error) {
	var groups []models.SizeGroup
	for g := range f.lines[garmentID] {
		groups = append(groups, g)
	}
	return groups, nil
}

func newPricing(store CatalogStore) *PricingService {
	return NewPricingService(store, config.PricingConfig{
		RetailMarkup:    config.DefaultRetailMarkup,
		WholesaleMarkup: config.DefaultWholesaleMarkup,
		QueryTimeout:    time.Second,
	})
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "%s = %s, want %s", field, got, want)
}

func blouseStore() (*fakeStore, *models.Garment) {
	store := newFakeStore()
	blouse := store.addGarment("Blouse", "30.00")
	store.addLine(blouse.ID, models.SizeGroupRegular, "Cotton", "5.00", "2.0")
	store.addLine(blouse.ID, models.SizeGroupRegular, "Thread", "1.00", "0.5")
	store.addLine(blouse.ID, models.SizeGroupPlus, "Cotton", "5.00", "2.5")
	return store, blouse
}

func TestComputeBudgetBlouseScenario(t *testing.T) {
	store, _ := blouseStore()
	svc := newPricing(store)

	res, err := svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Blouse"},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Blouse", res.Garment.Name)
	assert.Equal(t, models.SizeGroupRegular, res.SizeGroup)
	assert.Equal(t, "XS, S, M, L, XL", res.SizeGroupLabel)
	assert.Equal(t, 10, res.Quantity)
	require.Len(t, res.Materials, 2)

	assert.Equal(t, "Cotton", res.Materials[0].Name)
	assertDecimal(t, "20", res.Materials[0].QuantityNeeded, "cotton quantity needed")
	assertDecimal(t, "100", res.Materials[0].LineCost, "cotton line cost")
	assertDecimal(t, "5", res.Materials[1].QuantityNeeded, "thread quantity needed")
	assertDecimal(t, "5", res.Materials[1].LineCost, "thread line cost")

	assertDecimal(t, "105", res.TotalMaterialCost, "total material cost")
	assertDecimal(t, "10.5", res.UnitMaterialCost, "unit material cost")
	assertDecimal(t, "17.85", res.SuggestedRetailPrice, "suggested retail")
	assertDecimal(t, "15.75", res.SuggestedWholesalePrice, "suggested wholesale")
	assertDecimal(t, "300", res.TotalSaleValue, "total sale value")
	assertDecimal(t, "195", res.EstimatedProfit, "estimated profit")
}

func TestComputeBudgetByID(t *testing.T) {
	store, blouse := blouseStore()
	svc := newPricing(store)

	res, err := svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{ID: blouse.ID},
		SizeGroup: models.SizeGroupPlus,
		Quantity:  4,
	})
	require.NoError(t, err)

	// Only the 2XL-3XL line is aggregated.
	require.Len(t, res.Materials, 1)
	assertDecimal(t, "50", res.TotalMaterialCost, "total material cost")
}

func TestComputeBudgetSingleMaterialProperty(t *testing.T) {
	prices := []string{"0", "0.01", "3.75", "12.40"}
	units := []string{"0.25", "1", "1.75", "3.10"}

	for _, p := range prices {
		for _, u := range units {
			for _, q := range []int{1, 3, 7, 250} {
				store := newFakeStore()
				g := store.addGarment("Falda", "")
				store.addLine(g.ID, models.SizeGroupXL4, "Lino", p, u)

				res, err := newPricing(store).ComputeBudget(context.Background(), BudgetRequest{
					Garment:   GarmentRef{ID: g.ID},
					SizeGroup: models.SizeGroupXL4,
					Quantity:  q,
				})
				require.NoError(t, err)

				price, unit, qty := decimal.RequireFromString(p), decimal.RequireFromString(u), decimal.NewFromInt(int64(q))
				name := fmt.Sprintf("p=%s u=%s q=%d", p, u, q)
				assertDecimal(t, price.Mul(unit).Mul(qty).String(), res.TotalMaterialCost, name+" total")
				assertDecimal(t, res.TotalMaterialCost.Div(qty).String(), res.UnitMaterialCost, name+" unit")
				assertDecimal(t, res.UnitMaterialCost.Mul(decimal.RequireFromString("1.70")).String(), res.SuggestedRetailPrice, name+" retail")
				assertDecimal(t, res.UnitMaterialCost.Mul(decimal.RequireFromString("1.50")).String(), res.SuggestedWholesalePrice, name+" wholesale")

				// No sale price: sale value is zero and profit is the negative material cost.
				assert.True(t, res.TotalSaleValue.IsZero(), name)
				assert.True(t, res.EstimatedProfit.Equal(res.TotalMaterialCost.Neg()), name)
			}
		}
	}
}

func TestComputeBudgetNullPriceCountsAsZero(t *testing.T) {
	store := newFakeStore()
	g := store.addGarment("Chaleco", "20")
	store.addLine(g.ID, models.SizeGroupRegular, "Botones", "", "6")
	store.addLine(g.ID, models.SizeGroupRegular, "Paño", "8", "1.5")

	res, err := newPricing(store).ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Chaleco"},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.True(t, res.Materials[0].UnitPrice.IsZero())
	assert.True(t, res.Materials[0].LineCost.IsZero())
	assertDecimal(t, "24", res.TotalMaterialCost, "total")
	assertDecimal(t, "16", res.EstimatedProfit, "profit")
}

func TestComputeBudgetInvalidInput(t *testing.T) {
	store, blouse := blouseStore()
	svc := newPricing(store)

	cases := []struct {
		name string
		req  BudgetRequest
		want error
	}{
		{"zero quantity", BudgetRequest{Garment: GarmentRef{Name: "Blouse"}, SizeGroup: models.SizeGroupRegular, Quantity: 0}, ErrInvalidQuantity},
		{"negative quantity", BudgetRequest{Garment: GarmentRef{Name: "Blouse"}, SizeGroup: models.SizeGroupRegular, Quantity: -3}, ErrInvalidQuantity},
		{"unknown size group", BudgetRequest{Garment: GarmentRef{Name: "Blouse"}, SizeGroup: "XXL", Quantity: 1}, ErrInvalidSizeGroup},
		{"no garment ref", BudgetRequest{SizeGroup: models.SizeGroupRegular, Quantity: 1}, ErrInvalidGarmentRef},
		{"both refs", BudgetRequest{Garment: GarmentRef{ID: blouse.ID, Name: "Blouse"}, SizeGroup: models.SizeGroupRegular, Quantity: 1}, ErrInvalidGarmentRef},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.ComputeBudget(context.Background(), tc.req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
	assert.Zero(t, store.lineQueries)
}

func TestComputeBudgetUnknownGarmentSkipsMaterialQuery(t *testing.T) {
	store, _ := blouseStore()
	svc := newPricing(store)

	_, err := svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Pantalón"},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ErrGarmentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{ID: uuid.New()},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ErrGarmentNotFound)
	assert.Zero(t, store.lineQueries)
}

func TestComputeBudgetEmptyGroupIsNotFound(t *testing.T) {
	store, _ := blouseStore()

	res, err := newPricing(store).ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Blouse"},
		SizeGroup: models.SizeGroupXL4,
		Quantity:  5,
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNoMaterialsForGroup)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComputeBudgetIsIdempotent(t *testing.T) {
	store, _ := blouseStore()
	svc := newPricing(store)
	req := BudgetRequest{Garment: GarmentRef{Name: "Blouse"}, SizeGroup: models.SizeGroupRegular, Quantity: 3}

	first, err := svc.ComputeBudget(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.ComputeBudget(context.Background(), req)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestComputeBudgetStorageFailure(t *testing.T) {
	store, _ := blouseStore()
	store.err = errors.New("connection refused")

	_, err := newPricing(store).ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Blouse"},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestComputeBudgetStorageFailureLogsGarmentRef(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	store, blouse := blouseStore()
	store.err = errors.New("connection refused")
	svc := newPricing(store)

	_, err := svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: " Blouse "},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  1,
	})
	require.ErrorIs(t, err, ErrStorageUnavailable)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "load garment", entry.Data["op"])
	assert.Equal(t, "Blouse", entry.Data["garment_name"])
	assert.NotContains(t, entry.Data, "garment_id")

	hook.Reset()
	_, err = svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{ID: blouse.ID},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  1,
	})
	require.ErrorIs(t, err, ErrStorageUnavailable)

	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, blouse.ID, entry.Data["garment_id"])
	assert.NotContains(t, entry.Data, "garment_name")
}

func TestComputeBudgetStorageTimeout(t *testing.T) {
	store, _ := blouseStore()
	store.block = true

	svc := NewPricingService(store, config.PricingConfig{QueryTimeout: 20 * time.Millisecond})
	start := time.Now()
	_, err := svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Blouse"},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  1,
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCustomMarkups(t *testing.T) {
	store, _ := blouseStore()
	svc := NewPricingService(store, config.PricingConfig{RetailMarkup: 2, WholesaleMarkup: 1.25})

	res, err := svc.ComputeBudget(context.Background(), BudgetRequest{
		Garment:   GarmentRef{Name: "Blouse"},
		SizeGroup: models.SizeGroupRegular,
		Quantity:  10,
	})
	require.NoError(t, err)
	assertDecimal(t, "21", res.SuggestedRetailPrice, "retail")
	assertDecimal(t, "13.125", res.SuggestedWholesalePrice, "wholesale")
}

func TestListSizeGroups(t *testing.T) {
	store, blouse := blouseStore()
	store.addLine(blouse.ID, models.SizeGroupXL4, "Cotton", "5.00", "3")
	svc := newPricing(store)

	groups, err := svc.ListSizeGroups(context.Background(), GarmentRef{Name: "Blouse"})
	require.NoError(t, err)
	assert.Equal(t, []SizeGroupOption{
		{Value: models.SizeGroupRegular, Label: "XS, S, M, L, XL"},
		{Value: models.SizeGroupPlus, Label: "2XL, 3XL"},
		{Value: models.SizeGroupXL4, Label: "4XL"},
	}, groups)

	empty := store.addGarment("Gorra", "")
	groups, err = svc.ListSizeGroups(context.Background(), GarmentRef{ID: empty.ID})
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = svc.ListSizeGroups(context.Background(), GarmentRef{Name: "Nada"})
	assert.ErrorIs(t, err, ErrNotFound)
}
