package movements_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// Escenario de punta a punta: receipt, delivery y traslado interno sobre el
// mismo producto, verificando stock cacheado, entradas del libro y el
// invariante stock == Σ quantity_change tras cada paso.
func TestExecute_EndToEnd(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)
	ctx := context.Background()

	// receipt de 20 hacia L1
	s.movements["mov-r"] = draftMovement("mov-r", entity.MovementTypeReceipt, "", testLocA, 20)
	executed, err := uc.Execute(ctx, testOrg, testUser, "mov-r")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusDone, executed.Status)
	require.NotNil(t, executed.ExecutedAt, "executed_at debe asignarse al pasar a done")

	assert.Equal(t, int64(20), s.products[testProd].CurrentStock)
	require.Len(t, s.ledger, 1)
	assert.Equal(t, int64(20), s.ledger[0].QuantityChange)
	assert.Equal(t, int64(20), s.ledger[0].BalanceAfter)
	assert.Equal(t, testLocA, s.ledger[0].LocationID)
	assert.Equal(t, s.products[testProd].CurrentStock, ledgerSum(s, testOrg, testProd))

	// delivery de 5 desde L1
	s.movements["mov-d"] = draftMovement("mov-d", entity.MovementTypeDelivery, testLocA, "", 5)
	_, err = uc.Execute(ctx, testOrg, testUser, "mov-d")
	require.NoError(t, err)

	assert.Equal(t, int64(15), s.products[testProd].CurrentStock)
	require.Len(t, s.ledger, 2)
	assert.Equal(t, int64(-5), s.ledger[1].QuantityChange)
	assert.Equal(t, int64(15), s.ledger[1].BalanceAfter)
	assert.Equal(t, s.products[testProd].CurrentStock, ledgerSum(s, testOrg, testProd))

	// internal de 10 de L1 a L2: total intacto, dos entradas inversas
	s.movements["mov-i"] = draftMovement("mov-i", entity.MovementTypeInternal, testLocA, testLocB, 10)
	_, err = uc.Execute(ctx, testOrg, testUser, "mov-i")
	require.NoError(t, err)

	assert.Equal(t, int64(15), s.products[testProd].CurrentStock, "un traslado interno no altera el total")
	require.Len(t, s.ledger, 4)
	out, in := s.ledger[2], s.ledger[3]
	assert.Equal(t, int64(-10), out.QuantityChange)
	assert.Equal(t, testLocA, out.LocationID)
	assert.Equal(t, int64(10), in.QuantityChange)
	assert.Equal(t, testLocB, in.LocationID)
	assert.Zero(t, out.QuantityChange+in.QuantityChange, "las dos entradas de un internal son inversas aditivas")
	assert.Equal(t, int64(15), out.BalanceAfter)
	assert.Equal(t, int64(15), in.BalanceAfter)
	assert.Equal(t, s.products[testProd].CurrentStock, ledgerSum(s, testOrg, testProd))
}

// El motor bloquea los productos en orden ascendente de id sin importar el
// orden de las líneas: movimientos que listan los mismos productos en órdenes
// opuestos toman los locks en la misma secuencia y no pueden abrazarse.
func TestExecute_ProductosSeBloqueanEnOrdenEstable(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)

	// líneas en orden inverso al de los ids (prod-cafe antes que prod-azucar)
	mov := draftMovement("mov-multi", entity.MovementTypeReceipt, "", testLocA, 20)
	mov.Lines = append(mov.Lines, entity.MovementLine{
		ProductID: testProd2, ProductName: "Azúcar 1kg", ProductSKU: "AZU-001",
		Quantity: 7, UnitOfMeasure: "Units",
	})
	s.movements["mov-multi"] = mov

	_, err := uc.Execute(context.Background(), testOrg, testUser, "mov-multi")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(s.productLocks), 2)
	assert.Equal(t, []string{testProd2, testProd}, s.productLocks[:2],
		"la pasada de bloqueo toma los productos ordenados por id, no por línea")

	assert.Equal(t, int64(20), s.products[testProd].CurrentStock)
	assert.Equal(t, int64(7), s.products[testProd2].CurrentStock)
}

// Idempotencia: la segunda ejecución se rechaza y no cambia nada.
func TestExecute_SecondCallRejected(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)
	ctx := context.Background()

	s.movements["mov-1"] = draftMovement("mov-1", entity.MovementTypeReceipt, "", testLocA, 8)
	_, err := uc.Execute(ctx, testOrg, testUser, "mov-1")
	require.NoError(t, err)

	stockAfterFirst := s.products[testProd].CurrentStock
	entriesAfterFirst := len(s.ledger)
	executedAtFirst := *s.movements["mov-1"].ExecutedAt

	_, err = uc.Execute(ctx, testOrg, testUser, "mov-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)

	assert.Equal(t, stockAfterFirst, s.products[testProd].CurrentStock, "el stock no cambia en el reintento")
	assert.Len(t, s.ledger, entriesAfterFirst, "el libro no recibe entradas duplicadas")
	assert.Equal(t, executedAtFirst, *s.movements["mov-1"].ExecutedAt, "executed_at se fija una sola vez")
}

// Sobre-entrega: el stock puede quedar negativo; es comportamiento aceptado,
// no un error.
func TestExecute_OverDeliveryGoesNegative(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)

	s.movements["mov-od"] = draftMovement("mov-od", entity.MovementTypeDelivery, testLocA, "", 5)
	_, err := uc.Execute(context.Background(), testOrg, testUser, "mov-od")
	require.NoError(t, err, "la sobre-entrega no se bloquea")

	assert.Equal(t, int64(-5), s.products[testProd].CurrentStock)
	require.Len(t, s.ledger, 1)
	assert.Equal(t, int64(-5), s.ledger[0].BalanceAfter)
}

// Un fallo a mitad de camino (segunda línea con producto inexistente) no deja
// posteos parciales.
func TestExecute_FailureLeavesStateUntouched(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)

	mov := draftMovement("mov-x", entity.MovementTypeReceipt, "", testLocA, 4)
	mov.Lines = append(mov.Lines, entity.MovementLine{ProductID: "prod-fantasma", Quantity: 2})
	s.movements["mov-x"] = mov

	_, err := uc.Execute(context.Background(), testOrg, testUser, "mov-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, s.ledger, "ninguna entrada parcial sobrevive al fallo")
	assert.Zero(t, s.products[testProd].CurrentStock, "el stock de la primera línea se revierte")
	assert.Equal(t, entity.MovementStatusDraft, s.movements["mov-x"].Status)
}

func TestExecute_Preconditions(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)
	ctx := context.Background()

	t.Run("movimiento inexistente", func(t *testing.T) {
		_, err := uc.Execute(ctx, testOrg, testUser, "no-existe")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("movimiento de otra organización invisible", func(t *testing.T) {
		foreign := draftMovement("mov-ajeno", entity.MovementTypeReceipt, "", testLocA, 3)
		foreign.OrganizationID = otherOrg
		s.movements["mov-ajeno"] = foreign
		_, err := uc.Execute(ctx, testOrg, testUser, "mov-ajeno")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("canceled es terminal", func(t *testing.T) {
		canceled := draftMovement("mov-can", entity.MovementTypeReceipt, "", testLocA, 3)
		canceled.Status = entity.MovementStatusCanceled
		s.movements["mov-can"] = canceled
		_, err := uc.Execute(ctx, testOrg, testUser, "mov-can")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("receipt sin destino", func(t *testing.T) {
		s.movements["mov-nl"] = draftMovement("mov-nl", entity.MovementTypeReceipt, "", "", 3)
		_, err := uc.Execute(ctx, testOrg, testUser, "mov-nl")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("ubicación inexistente", func(t *testing.T) {
		s.movements["mov-bl"] = draftMovement("mov-bl", entity.MovementTypeReceipt, "", "loc-fantasma", 3)
		_, err := uc.Execute(ctx, testOrg, testUser, "mov-bl")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("los ajustes no se ejecutan por aquí", func(t *testing.T) {
		adj := draftMovement("mov-adj", entity.MovementTypeAdjustment, testLocA, testLocA, 3)
		s.movements["mov-adj"] = adj
		_, err := uc.Execute(ctx, testOrg, testUser, "mov-adj")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// Ejecuciones concurrentes del mismo movimiento: exactamente una gana, la otra
// observa AlreadyExecuted y el posteo no se duplica.
func TestExecute_ConcurrentSameMovement(t *testing.T) {
	s := seedState()
	runner := &fakeTxRunner{s: s}
	uc := movements.NewExecuteMovementUseCase(runner)

	s.movements["mov-c"] = draftMovement("mov-c", entity.MovementTypeReceipt, "", testLocA, 7)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.Execute(context.Background(), testOrg, testUser, "mov-c")
			errs <- err
		}()
	}
	err1, err2 := <-errs, <-errs

	winners := 0
	for _, err := range []error{err1, err2} {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
		}
	}
	assert.Equal(t, 1, winners, "exactamente una ejecución debe ganar la carrera")
	assert.Equal(t, int64(7), s.products[testProd].CurrentStock)
	assert.Len(t, s.ledger, 1)
}
