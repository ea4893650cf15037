package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printshop/backend/internal/domain/order"
)

func testOrder() *order.Order {
	return &order.Order{
		ID:       uuid.New(),
		Email:    "buyer@example.com",
		Currency: "usd",
		ShippingAddress: &order.Address{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Address1:    "1 Analytical Way",
			City:        "London",
			Province:    "LDN",
			CountryCode: "gb",
			PostalCode:  "EC1A 1BB",
			Phone:       "+44 20 7946 0958",
		},
		Items: []order.LineItem{
			{ID: uuid.New(), SKU: "TEE-BLK-M", Title: "Black Tee M", Quantity: 2, UnitPrice: 2500},
			{ID: uuid.New(), SKU: "MUG-WHT", Title: "White Mug", Quantity: 1, UnitPrice: 1999},
		},
	}
}

func TestMapOrder(t *testing.T) {
	o := testOrder()

	req, err := MapOrder(o)
	require.NoError(t, err)
	require.NotNil(t, req)

	assert.Equal(t, o.ID.String(), req.ExternalID)
	assert.Equal(t, DefaultShippingMethod, req.Shipping)

	assert.Equal(t, "Ada Lovelace", req.Recipient.Name)
	assert.Equal(t, "1 Analytical Way", req.Recipient.Address1)
	assert.Equal(t, "London", req.Recipient.City)
	assert.Equal(t, "LDN", req.Recipient.StateCode)
	assert.Equal(t, "EC1A 1BB", req.Recipient.Zip)
	assert.Equal(t, "buyer@example.com", req.Recipient.Email)

	require.Len(t, req.Items, 2)
	assert.Equal(t, "TEE-BLK-M", req.Items[0].ExternalVariantID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "25", req.Items[0].RetailPrice)
	assert.Equal(t, "Black Tee M", req.Items[0].Name)
	assert.Equal(t, "19.99", req.Items[1].RetailPrice)
}

func TestMapOrder_CountryCodeUppercasedAndMirrored(t *testing.T) {
	o := testOrder()

	req, err := MapOrder(o)
	require.NoError(t, err)

	assert.Equal(t, "GB", req.Recipient.CountryCode)
	assert.Equal(t, "GB", req.Recipient.CountryName)
}

func TestMapOrder_DefaultsCountryCode(t *testing.T) {
	o := testOrder()
	o.ShippingAddress.CountryCode = ""

	req, err := MapOrder(o)
	require.NoError(t, err)

	assert.Equal(t, DefaultCountryCode, req.Recipient.CountryCode)
	assert.Equal(t, DefaultCountryCode, req.Recipient.CountryName)
}

func TestMapOrder_NameIsPlainSpaceJoin(t *testing.T) {
	o := testOrder()
	o.ShippingAddress.LastName = ""

	req, err := MapOrder(o)
	require.NoError(t, err)
	assert.Equal(t, "Ada ", req.Recipient.Name)

	o.ShippingAddress.FirstName = ""
	o.ShippingAddress.Company = "Analytical Engines Ltd"

	req, err = MapOrder(o)
	require.NoError(t, err)
	assert.Equal(t, " ", req.Recipient.Name)
}

func TestMapOrder_MissingShippingAddress(t *testing.T) {
	o := testOrder()
	o.ShippingAddress = nil

	req, err := MapOrder(o)
	assert.Nil(t, req)
	assert.ErrorIs(t, err, ErrMissingShippingAddress)
}

func TestMapOrder_ItemWithoutSKUFallsBackToLineID(t *testing.T) {
	o := testOrder()
	lineID := uuid.New()
	o.Items = []order.LineItem{
		{ID: lineID, Title: "Poster", Quantity: 1, UnitPrice: 1050},
	}

	req, err := MapOrder(o)
	require.NoError(t, err)

	require.Len(t, req.Items, 1)
	assert.Equal(t, lineID.String(), req.Items[0].ExternalVariantID)
	assert.Equal(t, "10.5", req.Items[0].RetailPrice)
}

func TestMapOrder_EmptyItems(t *testing.T) {
	o := testOrder()
	o.Items = nil

	req, err := MapOrder(o)
	require.NoError(t, err)
	assert.Empty(t, req.Items)
	assert.NotNil(t, req.Items)
}

func TestRetailPrice(t *testing.T) {
	tests := []struct {
		name  string
		minor int64
		want  string
	}{
		{"whole amount", 2500, "25"},
		{"cents", 1999, "19.99"},
		{"single cent", 1, "0.01"},
		{"tenth", 1050, "10.5"},
		{"zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetailPrice(tt.minor))
		})
	}
}
