package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/ledger"
)

// receipt: una sola entrada positiva en el destino.
func TestPostingsForLine_Receipt(t *testing.T) {
	ps, err := ledger.PostingsForLine(entity.MovementTypeReceipt, 20, "", "loc-dest")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "loc-dest", ps[0].LocationID)
	assert.Equal(t, int64(20), ps[0].QuantityChange)
	assert.Equal(t, int64(20), ledger.NetChange(ps))
}

// delivery: una sola entrada negativa en el origen.
func TestPostingsForLine_Delivery(t *testing.T) {
	ps, err := ledger.PostingsForLine(entity.MovementTypeDelivery, 5, "loc-src", "")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "loc-src", ps[0].LocationID)
	assert.Equal(t, int64(-5), ps[0].QuantityChange)
}

// internal: dos entradas inversas, neto cero sobre el total del producto.
func TestPostingsForLine_InternalNetsToZero(t *testing.T) {
	ps, err := ledger.PostingsForLine(entity.MovementTypeInternal, 10, "loc-a", "loc-b")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, int64(-10), ps[0].QuantityChange)
	assert.Equal(t, "loc-a", ps[0].LocationID)
	assert.Equal(t, int64(10), ps[1].QuantityChange)
	assert.Equal(t, "loc-b", ps[1].LocationID)
	assert.Zero(t, ledger.NetChange(ps))
}

func TestPostingsForLine_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		movType  string
		qty      int64
		src, dst string
	}{
		{"cantidad cero", entity.MovementTypeReceipt, 0, "", "loc"},
		{"cantidad negativa", entity.MovementTypeDelivery, -3, "loc", ""},
		{"receipt sin destino", entity.MovementTypeReceipt, 1, "", ""},
		{"delivery sin origen", entity.MovementTypeDelivery, 1, "", "loc"},
		{"internal sin origen", entity.MovementTypeInternal, 1, "", "loc"},
		{"internal misma ubicación", entity.MovementTypeInternal, 1, "loc", "loc"},
		{"adjustment no pasa por la tabla", entity.MovementTypeAdjustment, 1, "loc", "loc"},
		{"tipo desconocido", "restock", 1, "loc", "loc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.PostingsForLine(tc.movType, tc.qty, tc.src, tc.dst)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
