// Package store holds the application state tree. All writes go through
// Apply; all reads return copies.
package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/costing"
	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
)

// Mutation is one named change to the state. Apply mutates a private
// working copy and returns the event describing what happened; if it
// returns an error the copy is discarded.
type Mutation struct {
	Name  string
	Apply func(st *domain.State) (domain.Event, error)
}

// Option configures the store.
type Option func(*Store)

// WithDispatcher registers the root observer that receives every event.
func WithDispatcher(d domain.EventDispatcher) Option {
	return func(s *Store) {
		s.dispatcher = d
	}
}

// WithEmptyState starts from an empty state instead of the example data.
func WithEmptyState() Option {
	return func(s *Store) {
		s.state = &domain.State{}
	}
}

// Store is the in-memory root aggregate. Safe for concurrent access.
type Store struct {
	mu         sync.RWMutex
	state      *domain.State
	version    uint64
	dispatcher domain.EventDispatcher
	log        *logger.Logger
}

// New creates a store preloaded with example data.
func New(log *logger.Logger, opts ...Option) *Store {
	s := &Store{log: log}
	for _, opt := range opts {
		opt(s)
	}
	if s.state == nil {
		s.state = seedState()
		s.log.Debug("seeded %d products, %d price sets", len(s.state.Products), len(s.state.PriceSets))
	}
	return s
}

// Apply runs a mutation against a copy of the state and, on success,
// swaps the copy in and dispatches the resulting event. Readers never
// observe a half-applied mutation.
func (s *Store) Apply(ctx context.Context, m Mutation) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	work := s.state.Clone()
	ev, err := m.Apply(work)
	if err != nil {
		s.mu.Unlock()
		s.log.Debug("mutation %s rejected: %v", m.Name, err)
		return nil, errors.Wrap(err, m.Name)
	}
	if err := checkInvariants(work); err != nil {
		s.mu.Unlock()
		s.log.Error("mutation %s broke an invariant: %v", m.Name, err)
		return nil, errors.Wrap(err, m.Name)
	}
	s.state = work
	s.version++
	version := s.version
	s.mu.Unlock()

	s.log.Debug("applied %s (v%d)", ev.Type(), version)
	s.dispatch(ev)
	return ev, nil
}

// Replace swaps in a whole state, typically one just loaded from disk.
func (s *Store) Replace(ctx context.Context, st *domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkInvariants(st); err != nil {
		return errors.Wrap(err, "replacing state")
	}

	ev := domain.StateReplaced{
		Products:  len(st.Products),
		PriceSets: len(st.PriceSets),
		Recipes:   len(st.Recipes),
	}

	s.mu.Lock()
	s.state = st.Clone()
	s.version++
	s.mu.Unlock()

	s.log.Info("state replaced: %d products, %d price sets, %d recipes", ev.Products, ev.PriceSets, ev.Recipes)
	s.dispatch(ev)
	return nil
}

func (s *Store) dispatch(ev domain.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ev); err != nil {
		s.log.Warn("dispatching %s: %v", ev.Type(), err)
	}
}

// Version returns a counter that increases on every applied change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() *domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// CurrentCurrency returns the selected display currency, nil if none.
func (s *Store) CurrentCurrency() *domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentCurrency == nil {
		return nil
	}
	return s.state.CurrentCurrency.Ptr()
}

// Products returns the product bank sorted by name.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	out := make([]domain.Product, len(s.state.Products))
	copy(out, s.state.Products)
	s.mu.RUnlock()

	domain.SortProductsByName(out)
	return out
}

// Product returns a product by ID.
func (s *Store) Product(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.ProductIndex(id)
	if i < 0 {
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	return s.state.Products[i], nil
}

// PriceSets returns all price sets in creation order.
func (s *Store) PriceSets() []domain.PriceSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PriceSet, len(s.state.PriceSets))
	for i, ps := range s.state.PriceSets {
		out[i] = ps.Clone()
	}
	return out
}

// PriceSet returns a price set by ID.
func (s *Store) PriceSet(id string) (domain.PriceSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.PriceSetIndex(id)
	if i < 0 {
		return domain.PriceSet{}, errors.Wrapf(domain.ErrNotFound, "price set %s", id)
	}
	return s.state.PriceSets[i].Clone(), nil
}

// Recipes returns all recipes in creation order.
func (s *Store) Recipes() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Recipe, len(s.state.Recipes))
	for i, r := range s.state.Recipes {
		out[i] = r.Clone()
	}
	return out
}

// Recipe returns a recipe by ID.
func (s *Store) Recipe(id string) (domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.RecipeIndex(id)
	if i < 0 {
		return domain.Recipe{}, errors.Wrapf(domain.ErrNotFound, "recipe %s", id)
	}
	return s.state.Recipes[i].Clone(), nil
}

// RecipeWithPriceSet returns a recipe together with its resolved price
// set. A dangling reference resolves to nil without error.
func (s *Store) RecipeWithPriceSet(id string) (domain.Recipe, *domain.PriceSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.RecipeIndex(id)
	if i < 0 {
		return domain.Recipe{}, nil, errors.Wrapf(domain.ErrNotFound, "recipe %s", id)
	}
	r := s.state.Recipes[i].Clone()
	var ps *domain.PriceSet
	if resolved := s.state.ResolvePriceSet(&r); resolved != nil {
		c := resolved.Clone()
		ps = &c
	}
	return r, ps, nil
}

// checkInvariants enforces one entry per product in every price set and
// one ingredient per product in every recipe, plus unique ids per
// collection.
func checkInvariants(st *domain.State) error {
	ids := make([]string, 0, len(st.Products))
	for _, p := range st.Products {
		ids = append(ids, p.ID)
	}
	if err := costing.CheckUniqueProducts(ids); err != nil {
		return errors.Wrap(err, "product bank")
	}

	seen := make(map[string]bool, len(st.PriceSets))
	for i := range st.PriceSets {
		ps := &st.PriceSets[i]
		if seen[ps.ID] {
			return errors.Wrapf(domain.ErrDuplicate, "price set id %s", ps.ID)
		}
		seen[ps.ID] = true
		if err := costing.CheckUniqueProducts(ps.ProductIDs()); err != nil {
			return errors.Wrapf(err, "price set %q", ps.Name)
		}
	}

	seen = make(map[string]bool, len(st.Recipes))
	for i := range st.Recipes {
		r := &st.Recipes[i]
		if seen[r.ID] {
			return errors.Wrapf(domain.ErrDuplicate, "recipe id %s", r.ID)
		}
		seen[r.ID] = true
		if err := costing.CheckUniqueProducts(r.ProductIDs()); err != nil {
			return errors.Wrapf(err, "recipe %q", r.Name)
		}
	}
	return nil
}
