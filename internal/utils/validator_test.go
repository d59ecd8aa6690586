package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Group    string              `validate:"required,size_group"`
	Price    *decimal.Decimal    `validate:"required,gte=0"`
	Quantity decimal.Decimal     `validate:"gt=0"`
	Sale     decimal.NullDecimal `validate:"omitempty,gte=0"`
}

func TestValidateStruct(t *testing.T) {
	zero := decimal.Zero
	ok := sampleRequest{
		Group:    "2XL-3XL",
		Price:    &zero,
		Quantity: decimal.RequireFromString("0.5"),
	}
	assert.NoError(t, ValidateStruct(&ok))

	bad := sampleRequest{
		Group:    "XXL",
		Quantity: decimal.Zero,
		Sale:     decimal.NewNullDecimal(decimal.NewFromInt(-1)),
	}
	errs := GetValidationErrors(ValidateStruct(&bad))
	require.Len(t, errs, 4)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "size_group", fields["group"])
	assert.Equal(t, "required", fields["price"])
	assert.Equal(t, "gt", fields["quantity"])
	assert.Equal(t, "gte", fields["sale"])
}

type moneyRequest struct {
	Price *decimal.Decimal    `validate:"required,gte=0,decimal_10_2"`
	Sale  decimal.NullDecimal `validate:"omitempty,gte=0,decimal_10_2"`
}

func TestValidateDecimal10_2(t *testing.T) {
	for _, raw := range []string{"0", "0.01", "12.5", "99999999.99"} {
		d := decimal.RequireFromString(raw)
		assert.NoError(t, ValidateStruct(&moneyRequest{Price: &d}), raw)
	}

	for _, raw := range []string{"0.004", "1.005", "100000000", "123456789012.5"} {
		d := decimal.RequireFromString(raw)
		errs := GetValidationErrors(ValidateStruct(&moneyRequest{Price: &d}))
		require.Len(t, errs, 1, raw)
		assert.Equal(t, "price", errs[0].Field)
		assert.Equal(t, "decimal_10_2", errs[0].Tag)
		assert.Contains(t, errs[0].Message, "at most 2 decimals")
	}

	zero := decimal.Zero
	errs := GetValidationErrors(ValidateStruct(&moneyRequest{
		Price: &zero,
		Sale:  decimal.NewNullDecimal(decimal.RequireFromString("19.999")),
	}))
	require.Len(t, errs, 1)
	assert.Equal(t, "sale", errs[0].Field)
}
