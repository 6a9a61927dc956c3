package movements_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

func newLifecycleUseCase(s *memState) *movements.UseCase {
	return movements.NewUseCase(
		&fakeMovementRepo{s: s},
		&fakeProductRepo{s: s},
		&fakeLocationRepo{s: s},
	)
}

func TestCreate_DraftWithEnrichedLines(t *testing.T) {
	s := seedState()
	uc := newLifecycleUseCase(s)

	mov, err := uc.Create(context.Background(), testOrg, testUser, dto.CreateMovementRequest{
		Type:                  entity.MovementTypeInternal,
		Reference:             "TRF-0001",
		SourceLocationID:      testLocA,
		DestinationLocationID: testLocB,
		Lines:                 []dto.MovementLineRequest{{ProductID: testProd, Quantity: 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusDraft, mov.Status, "todo movimiento nace en draft")
	assert.NotEmpty(t, mov.ID)
	assert.Equal(t, testUser, mov.CreatedBy)
	require.Len(t, mov.Lines, 1)
	assert.Equal(t, "CAFE-001", mov.Lines[0].ProductSKU, "la línea se enriquece desde el registro de productos")
	assert.NotEmpty(t, mov.Lines[0].ProductName)

	stored, err := uc.GetByID(context.Background(), testOrg, mov.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreate_Rejections(t *testing.T) {
	s := seedState()
	uc := newLifecycleUseCase(s)
	ctx := context.Background()

	line := []dto.MovementLineRequest{{ProductID: testProd, Quantity: 1}}
	cases := []struct {
		name string
		in   dto.CreateMovementRequest
		want error
	}{
		{"adjustment solo vía reconciliación", dto.CreateMovementRequest{Type: entity.MovementTypeAdjustment, Reference: "X", DestinationLocationID: testLocA, Lines: line}, domain.ErrInvalidInput},
		{"tipo desconocido", dto.CreateMovementRequest{Type: "teleport", Reference: "X", Lines: line}, domain.ErrInvalidInput},
		{"sin referencia", dto.CreateMovementRequest{Type: entity.MovementTypeReceipt, DestinationLocationID: testLocA, Lines: line}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateMovementRequest{Type: entity.MovementTypeReceipt, Reference: "X", DestinationLocationID: testLocA}, domain.ErrInvalidInput},
		{"cantidad no positiva", dto.CreateMovementRequest{Type: entity.MovementTypeReceipt, Reference: "X", DestinationLocationID: testLocA, Lines: []dto.MovementLineRequest{{ProductID: testProd, Quantity: 0}}}, domain.ErrInvalidInput},
		{"receipt sin destino", dto.CreateMovementRequest{Type: entity.MovementTypeReceipt, Reference: "X", Lines: line}, domain.ErrInvalidInput},
		{"delivery sin origen", dto.CreateMovementRequest{Type: entity.MovementTypeDelivery, Reference: "X", Lines: line}, domain.ErrInvalidInput},
		{"internal con origen igual a destino", dto.CreateMovementRequest{Type: entity.MovementTypeInternal, Reference: "X", SourceLocationID: testLocA, DestinationLocationID: testLocA, Lines: line}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateMovementRequest{Type: entity.MovementTypeReceipt, Reference: "X", DestinationLocationID: testLocA, Lines: []dto.MovementLineRequest{{ProductID: "nope", Quantity: 1}}}, domain.ErrNotFound},
		{"ubicación inexistente", dto.CreateMovementRequest{Type: entity.MovementTypeReceipt, Reference: "X", DestinationLocationID: "nope", Lines: line}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, testOrg, testUser, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdate_StatusTransitions(t *testing.T) {
	s := seedState()
	uc := newLifecycleUseCase(s)
	ctx := context.Background()

	status := func(v string) *string { return &v }

	t.Run("draft a waiting a ready", func(t *testing.T) {
		mov := draftMovement("m-lc-1", entity.MovementTypeReceipt, "", testLocA, 3)
		s.movements[mov.ID] = mov

		got, err := uc.Update(ctx, testOrg, mov.ID, dto.UpdateMovementRequest{Status: status(entity.MovementStatusWaiting)})
		require.NoError(t, err)
		assert.Equal(t, entity.MovementStatusWaiting, got.Status)

		got, err = uc.Update(ctx, testOrg, mov.ID, dto.UpdateMovementRequest{Status: status(entity.MovementStatusReady)})
		require.NoError(t, err)
		assert.Equal(t, entity.MovementStatusReady, got.Status)
	})

	t.Run("done nunca por update", func(t *testing.T) {
		mov := draftMovement("m-lc-2", entity.MovementTypeReceipt, "", testLocA, 3)
		s.movements[mov.ID] = mov
		_, err := uc.Update(ctx, testOrg, mov.ID, dto.UpdateMovementRequest{Status: status(entity.MovementStatusDone)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("salto draft a ready inválido", func(t *testing.T) {
		mov := draftMovement("m-lc-3", entity.MovementTypeReceipt, "", testLocA, 3)
		s.movements[mov.ID] = mov
		_, err := uc.Update(ctx, testOrg, mov.ID, dto.UpdateMovementRequest{Status: status(entity.MovementStatusReady)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelar desde cualquier estado no terminal", func(t *testing.T) {
		mov := draftMovement("m-lc-4", entity.MovementTypeReceipt, "", testLocA, 3)
		mov.Status = entity.MovementStatusWaiting
		s.movements[mov.ID] = mov
		got, err := uc.Update(ctx, testOrg, mov.ID, dto.UpdateMovementRequest{Status: status(entity.MovementStatusCanceled)})
		require.NoError(t, err)
		assert.Equal(t, entity.MovementStatusCanceled, got.Status)
	})

	t.Run("terminal congelado", func(t *testing.T) {
		mov := draftMovement("m-lc-5", entity.MovementTypeReceipt, "", testLocA, 3)
		mov.Status = entity.MovementStatusCanceled
		s.movements[mov.ID] = mov
		notes := "tarde"
		_, err := uc.Update(ctx, testOrg, mov.ID, dto.UpdateMovementRequest{Notes: &notes})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestUpdate_PartialFields(t *testing.T) {
	s := seedState()
	uc := newLifecycleUseCase(s)

	mov := draftMovement("m-lc-6", entity.MovementTypeDelivery, testLocA, "", 2)
	mov.PartnerName = "ACME"
	s.movements[mov.ID] = mov

	notes := "revisar embalaje"
	got, err := uc.Update(context.Background(), testOrg, mov.ID, dto.UpdateMovementRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)
	assert.Equal(t, "ACME", got.PartnerName, "los campos no enviados no se tocan")
	assert.Equal(t, entity.MovementStatusDraft, got.Status)
}

func TestList_FilterValidation(t *testing.T) {
	s := seedState()
	uc := newLifecycleUseCase(s)

	s.movements["m-a"] = draftMovement("m-a", entity.MovementTypeReceipt, "", testLocA, 1)
	s.movements["m-b"] = draftMovement("m-b", entity.MovementTypeDelivery, testLocA, "", 1)

	got, err := uc.List(context.Background(), testOrg, repository.MovementFilter{Type: entity.MovementTypeReceipt})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m-a", got[0].ID)

	_, err = uc.List(context.Background(), testOrg, repository.MovementFilter{Type: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
