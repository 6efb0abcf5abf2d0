package catalog

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeComponents(t *testing.T) {
	components, err := decodeComponents([]byte(`[
		{"name": "food", "percentage": "60", "taxRate": "9"},
		{"name": "show", "percentage": "40", "taxRate": "21"}
	]`))
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "food", components[0].Name)
	assert.Equal(t, "60", components[0].Percentage.String())
	assert.Equal(t, "21", components[1].TaxRate.String())

	components, err = decodeComponents(nil)
	require.NoError(t, err)
	assert.Nil(t, components)

	_, err = decodeComponents([]byte(`{"name": 1}`))
	assert.Error(t, err)
}

func TestNullInt(t *testing.T) {
	assert.Nil(t, nullInt(sql.NullInt64{}))
	require.NotNil(t, nullInt(sql.NullInt64{Int64: 8, Valid: true}))
	assert.Equal(t, 8, *nullInt(sql.NullInt64{Int64: 8, Valid: true}))
}

func TestUniqueIDs(t *testing.T) {
	assert.Len(t, uniqueIDs([]int64{1, 2, 2, 3, 1}), 3)
}
