package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauro-app/tauro-backend/internal/database/dbtest"
	"github.com/tauro-app/tauro-backend/internal/models"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMaterialServiceCRUD(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewMaterialService(db)
	ctx := context.Background()

	created, err := svc.CreateMaterial(ctx, &MaterialRequest{
		Name:          "  Denim ",
		PricePerMeter: price("12.50"),
		Description:   "Mezclilla",
	})
	require.NoError(t, err)
	assert.Equal(t, "Denim", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.GetMaterial(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(got.PricePerMeter))

	updated, err := svc.UpdateMaterial(ctx, created.ID, &MaterialRequest{
		Name:          "Denim Premium",
		PricePerMeter: price("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Denim Premium", updated.Name)
	assert.True(t, updated.PricePerMeter.IsZero())
	assert.Empty(t, updated.Description)

	require.NoError(t, svc.DeleteMaterial(ctx, created.ID))
	_, err = svc.GetMaterial(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMaterialNotFound)
	assert.ErrorIs(t, svc.DeleteMaterial(ctx, created.ID), ErrNotFound)
}

func TestMaterialServiceValidation(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewMaterialService(db)
	ctx := context.Background()

	cases := map[string]*MaterialRequest{
		"missing name":   {PricePerMeter: price("1")},
		"blank name":     {Name: "   ", PricePerMeter: price("1")},
		"missing price":  {Name: "Seda"},
		"negative price": {Name: "Seda", PricePerMeter: price("-0.01")},
		"sub-cent price": {Name: "Seda", PricePerMeter: price("1.005")},
		"price overflow": {Name: "Seda", PricePerMeter: price("123456789012.5")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateMaterial(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestMaterialServiceDuplicateName(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewMaterialService(db)
	ctx := context.Background()

	first, err := svc.CreateMaterial(ctx, &MaterialRequest{Name: "Lino", PricePerMeter: price("8")})
	require.NoError(t, err)
	second, err := svc.CreateMaterial(ctx, &MaterialRequest{Name: "Seda", PricePerMeter: price("20")})
	require.NoError(t, err)

	_, err = svc.CreateMaterial(ctx, &MaterialRequest{Name: "Lino", PricePerMeter: price("9")})
	assert.ErrorIs(t, err, ErrMaterialExists)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateMaterial(ctx, second.ID, &MaterialRequest{Name: "Lino", PricePerMeter: price("20")})
	assert.ErrorIs(t, err, ErrConflict)

	// Keeping its own name is not a conflict.
	_, err = svc.UpdateMaterial(ctx, first.ID, &MaterialRequest{Name: "Lino", PricePerMeter: price("10")})
	assert.NoError(t, err)
}

func TestMaterialServiceDeleteRemovesAssignments(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewMaterialService(db)
	ctx := context.Background()

	cotton := createMaterial(t, db, "Cotton", "5")
	thread := createMaterial(t, db, "Thread", "1")
	blouse := createGarment(t, db, "Blouse", "30")
	assign(t, db, blouse, cotton, models.SizeGroupRegular, "2")
	assign(t, db, blouse, cotton, models.SizeGroupPlus, "2.5")
	kept := assign(t, db, blouse, thread, models.SizeGroupRegular, "0.5")

	require.NoError(t, svc.DeleteMaterial(ctx, cotton.ID))

	var remaining []models.GarmentMaterial
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestMaterialServiceList(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewMaterialService(db)
	ctx := context.Background()

	for _, name := range []string{"Seda", "Algodón", "Lino", "Lana"} {
		createMaterial(t, db, name, "1")
	}

	params := utils.PaginationParams{Page: 1, Limit: 2, Sort: "name", Order: "asc"}
	page, total, err := svc.ListMaterials(ctx, params)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Algodón", page[0].Name)
	assert.Equal(t, "Lana", page[1].Name)

	params.Search = "li"
	page, total, err = svc.ListMaterials(ctx, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Lino", page[0].Name)
}
