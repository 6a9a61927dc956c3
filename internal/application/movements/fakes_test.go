package movements_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el motor: implementan las interfaces de repositorio y
// un TxRunner que serializa con mutex y restaura un snapshot si el callback
// falla, imitando el commit/rollback de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	movements map[string]*entity.Movement
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	ledger    []*entity.LedgerEntry
	seq       int // orden de inserción del libro, para listar descendente

	// productLocks ids en el orden en que GetForUpdate los tomó, para poder
	// afirmar el orden de bloqueo del motor
	productLocks []string
}

func newMemState() *memState {
	return &memState{
		movements: map[string]*entity.Movement{},
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
	}
}

func copyMovement(m *entity.Movement) *entity.Movement {
	c := *m
	c.Lines = append([]entity.MovementLine(nil), m.Lines...)
	if m.ExecutedAt != nil {
		t := *m.ExecutedAt
		c.ExecutedAt = &t
	}
	return &c
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, m := range s.movements {
		c.movements[id] = copyMovement(m)
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, l := range s.locations {
		cl := *l
		c.locations[id] = &cl
	}
	for _, e := range s.ledger {
		ce := *e
		c.ledger = append(c.ledger, &ce)
	}
	c.seq = s.seq
	c.productLocks = append([]string(nil), s.productLocks...)
	return c
}

// ─── MovementRepository ──────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *memState }

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	for _, existing := range r.s.movements {
		if existing.OrganizationID == m.OrganizationID && existing.Reference == m.Reference {
			return domain.ErrDuplicate
		}
	}
	r.s.movements[m.ID] = copyMovement(m)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, orgID, id string) (*entity.Movement, error) {
	m, ok := r.s.movements[id]
	if !ok || m.OrganizationID != orgID {
		return nil, nil
	}
	return copyMovement(m), nil
}

func (r *fakeMovementRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, orgID, id)
}

func (r *fakeMovementRepo) List(_ context.Context, orgID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.OrganizationID != orgID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		out = append(out, copyMovement(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMovementRepo) Update(_ context.Context, m *entity.Movement) error {
	r.s.movements[m.ID] = copyMovement(m)
	return nil
}

func (r *fakeMovementRepo) MarkExecuted(_ context.Context, orgID, id string, at time.Time) (bool, error) {
	m, ok := r.s.movements[id]
	if !ok || m.OrganizationID != orgID || m.IsTerminal() {
		return false, nil
	}
	m.Status = entity.MovementStatusDone
	m.ExecutedAt = &at
	m.UpdatedAt = at
	return true, nil
}

func (r *fakeMovementRepo) CountPending(_ context.Context, orgID, movType string) (int64, error) {
	var n int64
	for _, m := range r.s.movements {
		if m.OrganizationID == orgID && m.Type == movType && !m.IsTerminal() {
			n++
		}
	}
	return n, nil
}

// ─── LedgerRepository ────────────────────────────────────────────────────────

type fakeLedgerRepo struct{ s *memState }

func (r *fakeLedgerRepo) CreateBatch(_ context.Context, entries []*entity.LedgerEntry) error {
	for _, e := range entries {
		ce := *e
		r.s.ledger = append(r.s.ledger, &ce)
		r.s.seq++
	}
	return nil
}

func (r *fakeLedgerRepo) LocationBalance(_ context.Context, orgID, productID, locationID string) (int64, error) {
	var sum int64
	for _, e := range r.s.ledger {
		if e.OrganizationID == orgID && e.ProductID == productID && e.LocationID == locationID {
			sum += e.QuantityChange
		}
	}
	return sum, nil
}

func (r *fakeLedgerRepo) List(_ context.Context, orgID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		e := r.s.ledger[i]
		if e.OrganizationID != orgID {
			continue
		}
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.MovementType != "" && e.MovementType != f.MovementType {
			continue
		}
		ce := *e
		out = append(out, &ce)
	}
	return out, nil
}

func (r *fakeLedgerRepo) BalancesByLocation(_ context.Context, orgID, productID string) ([]repository.LocationBalance, error) {
	sums := map[string]int64{}
	for _, e := range r.s.ledger {
		if e.OrganizationID == orgID && e.ProductID == productID {
			sums[e.LocationID] += e.QuantityChange
		}
	}
	var out []repository.LocationBalance
	for loc, q := range sums {
		if q > 0 {
			out = append(out, repository.LocationBalance{LocationID: loc, Quantity: q})
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].LocationID, out[j].LocationID) < 0 })
	return out, nil
}

func (r *fakeLedgerRepo) BalancesByProduct(_ context.Context, orgID, locationID string) ([]repository.ProductBalance, error) {
	sums := map[string]int64{}
	for _, e := range r.s.ledger {
		if e.OrganizationID == orgID && e.LocationID == locationID {
			sums[e.ProductID] += e.QuantityChange
		}
	}
	var out []repository.ProductBalance
	for pid, q := range sums {
		if q > 0 {
			out = append(out, repository.ProductBalance{ProductID: pid, Quantity: q})
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].ProductID, out[j].ProductID) < 0 })
	return out, nil
}

// ─── ProductRepository ───────────────────────────────────────────────────────

type fakeProductRepo struct{ s *memState }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, orgID, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.OrganizationID != orgID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.Product, error) {
	r.s.productLocks = append(r.s.productLocks, id)
	return r.GetByID(ctx, orgID, id)
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, orgID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.OrganizationID == orgID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, orgID, _ string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.OrganizationID == orgID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Search(_ context.Context, orgID, _ string, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) ListLowStock(_ context.Context, orgID string) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, orgID, id string, newStock int64) error {
	p, ok := r.s.products[id]
	if !ok || p.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	p.CurrentStock = newStock
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, orgID, id string) error {
	delete(r.s.products, id)
	return nil
}

func (r *fakeProductRepo) Stats(_ context.Context, orgID string) (repository.ProductStats, error) {
	return repository.ProductStats{}, nil
}

// ─── LocationRepository ──────────────────────────────────────────────────────

type fakeLocationRepo struct{ s *memState }

func (r *fakeLocationRepo) Create(_ context.Context, l *entity.Location) error {
	cl := *l
	r.s.locations[l.ID] = &cl
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, orgID, id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok || l.OrganizationID != orgID {
		return nil, nil
	}
	cl := *l
	return &cl, nil
}

func (r *fakeLocationRepo) List(_ context.Context, orgID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.OrganizationID == orgID {
			cl := *l
			out = append(out, &cl)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) ListByWarehouse(_ context.Context, orgID, warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.OrganizationID == orgID && l.WarehouseID == warehouseID {
			cl := *l
			out = append(out, &cl)
		}
	}
	return out, nil
}

// ─── TxRunner ────────────────────────────────────────────────────────────────

// fakeTxRunner serializa los callbacks con un mutex (la sección crítica que en
// PostgreSQL aporta el row lock) y restaura el estado previo si fn falla, para
// poder afirmar el todo-o-nada del posteo.
type fakeTxRunner struct {
	mu sync.Mutex
	s  *memState
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	backup := r.s.clone()
	err := fn(&fakeMovementRepo{r.s}, &fakeLedgerRepo{r.s}, &fakeProductRepo{r.s}, &fakeLocationRepo{r.s})
	if err != nil {
		*r.s = *backup
	}
	return err
}

// ─── Helpers de seed ─────────────────────────────────────────────────────────

const (
	testOrg   = "org-0001"
	otherOrg  = "org-0002"
	testUser  = "user-ana"
	testLocA  = "loc-A"
	testLocB  = "loc-B"
	testWhse  = "wh-central"
	testProd  = "prod-cafe"
	testProd2 = "prod-azucar"
)

func seedState() *memState {
	s := newMemState()
	now := time.Now().UTC()
	s.products[testProd] = &entity.Product{
		ID: testProd, OrganizationID: testOrg, SKU: "CAFE-001", Name: "Café molido 500g",
		UnitOfMeasure: "Units", ReorderLevel: 10, CreatedAt: now, UpdatedAt: now,
	}
	s.products[testProd2] = &entity.Product{
		ID: testProd2, OrganizationID: testOrg, SKU: "AZU-001", Name: "Azúcar 1kg",
		UnitOfMeasure: "Units", ReorderLevel: 5, CreatedAt: now, UpdatedAt: now,
	}
	s.locations[testLocA] = &entity.Location{ID: testLocA, OrganizationID: testOrg, WarehouseID: testWhse, Name: "Estante A", Type: entity.LocationTypeStorage, CreatedAt: now}
	s.locations[testLocB] = &entity.Location{ID: testLocB, OrganizationID: testOrg, WarehouseID: testWhse, Name: "Estante B", Type: entity.LocationTypeStorage, CreatedAt: now}
	return s
}

func draftMovement(id, movType, srcLoc, dstLoc string, qty int64) *entity.Movement {
	now := time.Now().UTC()
	return &entity.Movement{
		ID:                    id,
		OrganizationID:        testOrg,
		Type:                  movType,
		Status:                entity.MovementStatusDraft,
		Reference:             "REF-" + id,
		SourceLocationID:      srcLoc,
		DestinationLocationID: dstLoc,
		Lines: []entity.MovementLine{{
			ProductID: testProd, ProductName: "Café molido 500g", ProductSKU: "CAFE-001",
			Quantity: qty, UnitOfMeasure: "Units",
		}},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: testUser,
	}
}

// ledgerSum invariante central: Σ quantity_change por producto.
func ledgerSum(s *memState, orgID, productID string) int64 {
	var sum int64
	for _, e := range s.ledger {
		if e.OrganizationID == orgID && e.ProductID == productID {
			sum += e.QuantityChange
		}
	}
	return sum
}
