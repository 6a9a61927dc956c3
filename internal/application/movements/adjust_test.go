package movements_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// seedLedger agrega una entrada ya posteada al libro y ajusta el stock cacheado
// para mantener el invariante del seed.
func seedLedger(s *memState, productID, locationID string, delta int64) {
	p := s.products[productID]
	p.CurrentStock += delta
	s.ledger = append(s.ledger, &entity.LedgerEntry{
		ID: "seed-" + locationID + "-" + time.Now().Format("150405.000000000"),
		OrganizationID: testOrg, ProductID: productID,
		MovementType: entity.MovementTypeReceipt, Reference: "SEED",
		LocationID: locationID, Quantity: delta, QuantityChange: delta,
		BalanceAfter: p.CurrentStock, Timestamp: time.Now().UTC(), CreatedBy: testUser,
	})
}

// Saldo previo 7 en la ubicación, conteo 12: diferencia +5, nueva entrada +5 y
// el total del producto sube 5.
func TestAdjust_CountAboveBalance(t *testing.T) {
	s := seedState()
	seedLedger(s, testProd, testLocA, 7)
	runner := &fakeTxRunner{s: s}
	uc := movements.NewAdjustInventoryUseCase(runner)

	res, err := uc.Adjust(context.Background(), testOrg, testUser, movements.AdjustInput{
		ProductID: testProd, LocationID: testLocA, CountedQuantity: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.LocationPreviousStock)
	assert.Equal(t, int64(12), res.LocationNewStock)
	assert.Equal(t, int64(5), res.Difference)
	assert.Equal(t, int64(12), res.TotalStock)

	last := s.ledger[len(s.ledger)-1]
	assert.Equal(t, entity.MovementTypeAdjustment, last.MovementType)
	assert.Equal(t, int64(5), last.QuantityChange)
	assert.Equal(t, int64(5), last.Quantity, "la magnitud de la línea es abs(diferencia)")
	assert.Equal(t, int64(12), last.BalanceAfter)
	assert.Equal(t, s.products[testProd].CurrentStock, ledgerSum(s, testOrg, testProd))
}

// La reconciliación es por ubicación: con saldo 10 en A y 3 en B, contar 8 en A
// da diferencia -2; usar el total del producto (13) daría un delta incorrecto.
func TestAdjust_LocationScoped(t *testing.T) {
	s := seedState()
	seedLedger(s, testProd, testLocA, 10)
	seedLedger(s, testProd, testLocB, 3)
	runner := &fakeTxRunner{s: s}
	uc := movements.NewAdjustInventoryUseCase(runner)

	res, err := uc.Adjust(context.Background(), testOrg, testUser, movements.AdjustInput{
		ProductID: testProd, LocationID: testLocA, CountedQuantity: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.LocationPreviousStock, "el saldo base es el de la ubicación, no el total 13")
	assert.Equal(t, int64(-2), res.Difference)
	assert.Equal(t, int64(11), res.TotalStock)
	assert.Equal(t, s.products[testProd].CurrentStock, ledgerSum(s, testOrg, testProd))
}

// Diferencia cero: el conteo confirmado también deja constancia en el libro.
func TestAdjust_ZeroDifferenceStillRecorded(t *testing.T) {
	s := seedState()
	seedLedger(s, testProd, testLocA, 4)
	runner := &fakeTxRunner{s: s}
	uc := movements.NewAdjustInventoryUseCase(runner)

	entriesBefore := len(s.ledger)
	res, err := uc.Adjust(context.Background(), testOrg, testUser, movements.AdjustInput{
		ProductID: testProd, LocationID: testLocA, CountedQuantity: 4,
	})
	require.NoError(t, err)

	assert.Zero(t, res.Difference)
	require.Len(t, s.ledger, entriesBefore+1, "el conteo sin cambios también se registra")
	last := s.ledger[len(s.ledger)-1]
	assert.Zero(t, last.QuantityChange)
	assert.Equal(t, int64(4), s.products[testProd].CurrentStock)

	// además queda el movimiento adjustment ya ejecutado
	var adjustment *entity.Movement
	for _, m := range s.movements {
		if m.Type == entity.MovementTypeAdjustment {
			adjustment = m
		}
	}
	require.NotNil(t, adjustment)
	assert.Equal(t, entity.MovementStatusDone, adjustment.Status)
	assert.NotNil(t, adjustment.ExecutedAt)
	assert.Equal(t, testLocA, adjustment.SourceLocationID)
	assert.Equal(t, testLocA, adjustment.DestinationLocationID)
}

// Dos reconciliaciones concurrentes sobre la misma (producto, ubicación) desde
// saldo 0, contando 5 y 3: deben serializarse. El resultado final es el de una
// serialización consistente (termina en 5 o en 3, jamás 8) y el libro replica
// el stock.
func TestAdjust_ConcurrentReconciliationsSerialize(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewAdjustInventoryUseCase(runner)

	// el error viaja por el canal: require dentro de la goroutine haría Goexit
	// sin enviar y el receive de abajo quedaría bloqueado para siempre
	type outcome struct {
		res *movements.AdjustResult
		err error
	}
	done := make(chan outcome, 2)
	for _, counted := range []int64{5, 3} {
		counted := counted
		go func() {
			res, err := uc.Adjust(context.Background(), testOrg, testUser, movements.AdjustInput{
				ProductID: testProd, LocationID: testLocA, CountedQuantity: counted,
			})
			done <- outcome{res: res, err: err}
		}()
	}
	a, b := <-done, <-done
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	first, second := a.res, b.res

	final := s.products[testProd].CurrentStock
	assert.Contains(t, []int64{5, 3}, final, "el saldo final es el del último conteo serializado, nunca la suma")
	assert.Equal(t, final, ledgerSum(s, testOrg, testProd), "el libro replica el stock cacheado")
	assert.Len(t, s.ledger, 2)

	// una de las dos debió calcular su diferencia contra el saldo que dejó la
	// otra (5→3 da -2; 3→5 da +2), no contra el 0 original en ambas
	diffs := []int64{first.Difference, second.Difference}
	assert.Contains(t, [][]int64{{5, -2}, {-2, 5}, {3, 2}, {2, 3}}, diffs,
		"los deltas deben corresponder a una serialización, sin lost update")
}

// La referencia del ajuste es única por organización y su timestamp solo tiene
// resolución de segundos: dos conteos seguidos dentro del mismo segundo deben
// generar referencias distintas, no chocar con ErrDuplicate.
func TestAdjust_ReferencesNoColisionanEnElMismoSegundo(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewAdjustInventoryUseCase(runner)
	ctx := context.Background()

	resA, err := uc.Adjust(ctx, testOrg, testUser, movements.AdjustInput{
		ProductID: testProd, LocationID: testLocA, CountedQuantity: 4,
	})
	require.NoError(t, err)
	resB, err := uc.Adjust(ctx, testOrg, testUser, movements.AdjustInput{
		ProductID: testProd, LocationID: testLocB, CountedQuantity: 2,
	})
	require.NoError(t, err, "el segundo conteo del mismo segundo no puede fallar por referencia repetida")
	assert.NotEqual(t, resA.Reference, resB.Reference)
	assert.Len(t, s.movements, 2)
}

func TestAdjust_Validation(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewAdjustInventoryUseCase(runner)
	ctx := context.Background()

	t.Run("producto inexistente", func(t *testing.T) {
		_, err := uc.Adjust(ctx, testOrg, testUser, movements.AdjustInput{ProductID: "nope", LocationID: testLocA, CountedQuantity: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("ubicación inexistente", func(t *testing.T) {
		_, err := uc.Adjust(ctx, testOrg, testUser, movements.AdjustInput{ProductID: testProd, LocationID: "nope", CountedQuantity: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("conteo negativo", func(t *testing.T) {
		_, err := uc.Adjust(ctx, testOrg, testUser, movements.AdjustInput{ProductID: testProd, LocationID: testLocA, CountedQuantity: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("producto de otra organización invisible", func(t *testing.T) {
		_, err := uc.Adjust(ctx, otherOrg, testUser, movements.AdjustInput{ProductID: testProd, LocationID: testLocA, CountedQuantity: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
