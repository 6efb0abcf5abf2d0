package reservation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

func TestEncodeDecodeLines(t *testing.T) {
	minPersons := 8
	res := &domain.Reservation{
		AddOns: []domain.SelectedAddOn{{AddOnID: 2, Name: "Pre-show drinks", PricePerGuest: decimal.RequireFromString("12.50"), MinPersons: &minPersons}},
		Merchandise: []domain.OrderedMerchandiseItem{
			{ItemID: 5, Name: "Programme", UnitPrice: decimal.RequireFromString("7.95"), Quantity: 3},
		},
	}

	addOns, merchandise, err := encodeLines(res)
	require.NoError(t, err)

	var decoded domain.Reservation
	require.NoError(t, decodeLines(addOns, merchandise, &decoded))
	require.Len(t, decoded.AddOns, 1)
	require.Len(t, decoded.Merchandise, 1)
	assert.Equal(t, "Pre-show drinks", decoded.AddOns[0].Name)
	assert.True(t, decoded.AddOns[0].PricePerGuest.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, decoded.AddOns[0].MinPersons)
	assert.Equal(t, 8, *decoded.AddOns[0].MinPersons)
	assert.Equal(t, 3, decoded.Merchandise[0].Quantity)
}

func TestEncodeLines_NilBecomesEmptyArray(t *testing.T) {
	addOns, merchandise, err := encodeLines(&domain.Reservation{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(addOns))
	assert.JSONEq(t, `[]`, string(merchandise))

	var decoded domain.Reservation
	require.NoError(t, decodeLines(nil, nil, &decoded))
	assert.NotNil(t, decoded.AddOns)
	assert.Empty(t, decoded.Merchandise)
}

func TestDecodeLines_Malformed(t *testing.T) {
	var decoded domain.Reservation
	assert.Error(t, decodeLines([]byte(`{`), nil, &decoded))
}

func TestNullDecimal(t *testing.T) {
	assert.False(t, nullDecimal(nil).Valid)

	d := decimal.NewFromInt(32)
	nd := nullDecimal(&d)
	assert.True(t, nd.Valid)
	assert.True(t, nd.Decimal.Equal(d))
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"cancelled", "rejected"}, statusStrings(domain.InactiveStatuses))
}
