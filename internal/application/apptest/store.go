// Package apptest provides in-memory fakes of the repositories and the
// transaction runner for use case tests. The fake runner mirrors the real
// one's semantics: fn runs serialized and its writes are discarded when it
// fails, so atomic-abort behavior is testable without a database.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

type pairKey struct {
	productID  string
	locationID string
}

// Store is the shared in-memory state behind all fakes.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	projects  map[string]*entity.Project
	users     map[string]*entity.UserRef
	balances  map[pairKey]decimal.Decimal
	journal   []*entity.Transaction
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
		projects:  map[string]*entity.Project{},
		users:     map[string]*entity.UserRef{},
		balances:  map[pairKey]decimal.Decimal{},
	}
}

// AddProduct registers a product.
func (s *Store) AddProduct(p *entity.Product) { s.products[p.ID] = p }

// AddLocation registers a location.
func (s *Store) AddLocation(l *entity.Location) { s.locations[l.ID] = l }

// AddProject registers a project.
func (s *Store) AddProject(p *entity.Project) { s.projects[p.ID] = p }

// AddUser registers an actor reference.
func (s *Store) AddUser(u *entity.UserRef) { s.users[u.ID] = u }

// Balance returns the current balance of a pair.
func (s *Store) Balance(productID, locationID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[pairKey{productID, locationID}]
}

// SetBalance sets a raw balance without a journal entry. Only for tests that
// deliberately break conservation; normal setups go through the use cases.
func (s *Store) SetBalance(productID, locationID string, qty decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[pairKey{productID, locationID}] = qty
}

// Journal returns a copy of the journal entries.
func (s *Store) Journal() []*entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Transaction, len(s.journal))
	copy(out, s.journal)
	return out
}

// Products returns the fake product repository.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }

// Locations returns the fake location repository.
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s} }

// Projects returns the fake project repository.
func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{s} }

// Users returns the fake user reference repository.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Stock returns the fake stock repository.
func (s *Store) Stock() repository.StockRepository { return &stockRepo{s} }

// Transactions returns the fake journal repository.
func (s *Store) Transactions() repository.TransactionRepository { return &journalRepo{s} }

// TxRunner returns the fake transaction runner.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s} }

// TxRunner serializes callbacks on the store and rolls their writes back when
// they fail, like the real runner does with a SQL transaction.
type TxRunner struct {
	s *Store
}

// Run locks the store, snapshots the mutable state and executes fn. An error
// restores the snapshot.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	balancesSnapshot := make(map[pairKey]decimal.Decimal, len(r.s.balances))
	for k, v := range r.s.balances {
		balancesSnapshot[k] = v
	}
	journalLen := len(r.s.journal)

	if err := fn(&journalRepo{r.s}, &stockRepo{r.s}); err != nil {
		r.s.balances = balancesSnapshot
		r.s.journal = r.s.journal[:journalLen]
		return err
	}
	return nil
}

// The repo fakes below do not lock: reads in tests are either single-threaded
// or run under the TxRunner lock. Catalog data is fixed during a test.

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetByEAN(_ context.Context, ean string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.EAN != nil && *p.EAN == ean {
			return p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *productRepo) SetActive(_ context.Context, id string, active bool) error {
	if p, ok := r.s.products[id]; ok {
		p.Active = active
	}
	return nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = l
	return nil
}

func (r *locationRepo) Update(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = l
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}

func (r *locationRepo) SearchByName(_ context.Context, name string) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, l := range r.s.locations {
		if l.Active && strings.Contains(strings.ToLower(l.Name), strings.ToLower(name)) {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *locationRepo) ListActive(_ context.Context) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, l := range r.s.locations {
		if l.Active {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *locationRepo) SetActive(_ context.Context, id string, active bool) error {
	if l, ok := r.s.locations[id]; ok {
		l.Active = active
	}
	return nil
}

type projectRepo struct{ s *Store }

func (r *projectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	return r.s.projects[id], nil
}

func (r *projectRepo) SearchByName(_ context.Context, name string) ([]*entity.Project, error) {
	var list []*entity.Project
	for _, p := range r.s.projects {
		if p.Active && strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *projectRepo) ListActive(_ context.Context) ([]*entity.Project, error) {
	var list []*entity.Project
	for _, p := range r.s.projects {
		if p.Active {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.UserRef, error) {
	return r.s.users[id], nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
