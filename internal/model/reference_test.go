package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		ref  *Reference
	}{
		{"product", ProductRef(42)},
		{"inventory", InventoryRef(7)},
		{"user", UserRef(1)},
		{"sale", SaleRef(uuid.New())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, kind := tc.ref.Columns()
			require.NotNil(t, id)
			require.NotNil(t, kind)

			back, err := RefFromColumns(id, kind)
			require.NoError(t, err)
			assert.Equal(t, tc.ref.Kind, back.Kind)
			assert.Equal(t, tc.ref.ID, back.ID)
		})
	}
}

func TestReference_NilMapsToNullColumns(t *testing.T) {
	var ref *Reference
	id, kind := ref.Columns()
	assert.Nil(t, id)
	assert.Nil(t, kind)

	back, err := RefFromColumns(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, back)
}

func TestReference_HalfSetPairFails(t *testing.T) {
	id := "42"
	_, err := RefFromColumns(&id, nil)
	assert.Error(t, err)

	kind := string(RefProduct)
	_, err = RefFromColumns(nil, &kind)
	assert.Error(t, err)
}

func TestReference_UnknownKindFails(t *testing.T) {
	id, kind := "42", "warehouse"
	_, err := RefFromColumns(&id, &kind)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestReference_MalformedIDFails(t *testing.T) {
	id, kind := "not-a-number", string(RefProduct)
	_, err := RefFromColumns(&id, &kind)
	assert.Error(t, err)

	id, kind = "not-a-uuid", string(RefSale)
	_, err = RefFromColumns(&id, &kind)
	assert.Error(t, err)
}

func TestReference_TypedAccessors(t *testing.T) {
	pid, err := ProductRef(42).UintID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), pid)

	saleID := uuid.New()
	got, err := SaleRef(saleID).SaleID()
	require.NoError(t, err)
	assert.Equal(t, saleID, got)

	_, err = ProductRef(42).SaleID()
	assert.Error(t, err)
}

func TestTransactionDirection(t *testing.T) {
	assert.Equal(t, 1, TransactionDirection(TxPurchase))
	assert.Equal(t, 1, TransactionDirection(TxReturn))
	assert.Equal(t, -1, TransactionDirection(TxSale))
	assert.Equal(t, -1, TransactionDirection(TxTransfer))
	assert.Equal(t, 0, TransactionDirection(TxAdjustment))
}

func TestSignedQuantity(t *testing.T) {
	assert.Equal(t, 5, SignedQuantity(TxPurchase, 5))
	assert.Equal(t, -5, SignedQuantity(TxSale, 5))
	// adjustments carry their own sign
	assert.Equal(t, -3, SignedQuantity(TxAdjustment, -3))
	assert.Equal(t, 3, SignedQuantity(TxAdjustment, 3))
}
