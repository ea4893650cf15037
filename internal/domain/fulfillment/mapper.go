package fulfillment

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/order"
)

// DefaultShippingMethod is the shipping method requested on every created
// order. Rate selection happens on the provider side.
const DefaultShippingMethod = "STANDARD"

// DefaultCountryCode is used when the shipping address carries no country
const DefaultCountryCode = "US"

// MapOrder translates a local order into the provider's order-creation shape.
// It is a pure function: every mappable order produces a request, and the
// only failure mode is a missing shipping address.
//
// Line items resolve their remote variant through the SKU; items without a
// SKU fall back to their line-item ID so the provider can still reject them
// with a precise reference. Unit prices are minor currency units and are
// rendered as decimal major-unit strings.
func MapOrder(o *order.Order) (*CreateOrderRequest, error) {
	ship := o.ShippingAddress
	if ship == nil {
		return nil, ErrMissingShippingAddress
	}

	country := strings.ToUpper(strings.TrimSpace(ship.CountryCode))
	if country == "" {
		country = DefaultCountryCode
	}

	recipient := Recipient{
		Name:        recipientName(ship),
		Company:     ship.Company,
		Address1:    ship.Address1,
		Address2:    ship.Address2,
		City:        ship.City,
		StateCode:   ship.Province,
		StateName:   ship.Province,
		CountryCode: country,
		CountryName: country,
		Zip:         ship.PostalCode,
		Phone:       ship.Phone,
		Email:       o.Email,
	}

	items := make([]CreateOrderItem, 0, len(o.Items))
	for _, line := range o.Items {
		variantID := line.SKU
		if variantID == "" {
			variantID = line.ID.String()
		}
		items = append(items, CreateOrderItem{
			ExternalVariantID: variantID,
			Quantity:          line.Quantity,
			RetailPrice:       RetailPrice(line.UnitPrice),
			Name:              line.Title,
		})
	}

	return &CreateOrderRequest{
		ExternalID: o.ID.String(),
		Shipping:   DefaultShippingMethod,
		Recipient:  recipient,
		Items:      items,
	}, nil
}

// RetailPrice renders a minor-unit amount as a major-unit decimal string
// without trailing zeros (2500 -> "25", 1999 -> "19.99").
func RetailPrice(minorUnits int64) string {
	return decimal.NewFromInt(minorUnits).Div(decimal.NewFromInt(100)).String()
}

// recipientName joins the address names with a single space, nothing more.
// Partial or empty names pass through as-is; the provider owns any cleanup.
func recipientName(a *order.Address) string {
	return a.FirstName + " " + a.LastName
}
