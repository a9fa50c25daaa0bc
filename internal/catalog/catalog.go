// Package catalog holds the product list: admin mutations, the capped
// featured set, and the read-through refresh against the remote snapshot.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"kickslab/internal/devicestore"
	"kickslab/internal/domain"
	"kickslab/internal/seed"
	"kickslab/internal/sizing"
)

const (
	storageKey  = "kickslab_products"
	maxFeatured = 3
)

// Confirmer approves destructive actions before they mutate state.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

type Store struct {
	mu       sync.Mutex
	products []domain.Product
	store    *devicestore.Store
	logger   *log.Logger
	now      func() time.Time
}

// New builds a Store hydrated from the device store, falling back to the
// hardcoded default catalog so the storefront never starts empty.
func New(store *devicestore.Store, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{store: store, logger: logger, now: time.Now}

	var products []domain.Product
	ok, err := store.Get(storageKey, &products)
	if err != nil {
		return nil, fmt.Errorf("catalog: hydrate: %w", err)
	}
	if ok && len(products) > 0 {
		s.products = products
		logger.Printf("catalog: hydrated %d products from local cache", len(products))
	} else {
		s.products = seed.DefaultProducts()
		logger.Printf("catalog: seeded %d default products", len(s.products))
	}
	return s, nil
}

// Products returns a copy of the full product list.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Featured returns the featured subset, at most three products.
func (s *Store) Featured() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// ByID returns the product with the given id or domain.ErrNotFound.
func (s *Store) ByID(id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexByID(id); i >= 0 {
		p := s.products[i]
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

// BySlug returns the product with the given slug or domain.ErrNotFound.
func (s *Store) BySlug(slug string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Add validates a draft, assigns identity and defaults, appends it and
// persists the list.
func (s *Store) Add(draft domain.ProductDraft) (*domain.Product, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, errors.New("name required")
	}
	if draft.PriceCents <= 0 {
		return nil, errors.New("price must be positive")
	}
	if len(draft.Images) == 0 || strings.TrimSpace(draft.Images[0]) == "" {
		return nil, errors.New("image required")
	}

	sizes := draft.Sizes
	if len(sizes) == 0 {
		sizes = sizing.DefaultTokens()
	}
	for _, token := range sizes {
		if _, err := sizing.Parse(token); err != nil {
			return nil, err
		}
	}
	inStock := draft.InStock
	if len(inStock) == 0 {
		inStock = sizes
	}
	if !subset(inStock, sizes) {
		return nil, errors.New("inStock must be a subset of sizes")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.Product{
		ID:          s.nextIDLocked(),
		Slug:        Slugify(name),
		Name:        name,
		PriceCents:  draft.PriceCents,
		Images:      draft.Images,
		Description: draft.Description,
		Details:     draft.Details,
		Sizes:       sizes,
		InStock:     inStock,
		CreatedAt:   s.now().UTC(),
	}
	s.products = append(s.products, p)

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	s.logger.Printf("catalog: added product id=%d slug=%s", p.ID, p.Slug)
	return &p, nil
}

// Delete removes a product after the confirmer approves. Declining leaves
// the catalog untouched.
func (s *Store) Delete(id int64, confirm Confirmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("delete product %q?", s.products[i].Name)) {
		return domain.ErrNotConfirmed
	}
	s.products = append(s.products[:i], s.products[i+1:]...)

	if err := s.persistLocked(); err != nil {
		return err
	}
	s.logger.Printf("catalog: deleted product id=%d", id)
	return nil
}

// ToggleFeatured flips the featured flag. Unfeaturing is unconditional;
// featuring is rejected once three products are already featured, with no
// state change and no persistence write. This is the single authoritative
// enforcement point for the cap.
func (s *Store) ToggleFeatured(id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if !s.products[i].Featured && s.featuredCountLocked() >= maxFeatured {
		return nil, domain.ErrFeaturedLimit
	}
	s.products[i].Featured = !s.products[i].Featured

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	p := s.products[i]
	s.logger.Printf("catalog: product id=%d featured=%t", id, p.Featured)
	return &p, nil
}

// Adopt installs remote snapshot state over the local list. Divergence is
// last-writer-wins: differing local edits are discarded, which is surfaced
// in the log rather than hidden.
func (s *Store) Adopt(products []domain.Product) error {
	if len(products) == 0 {
		return errors.New("refusing to adopt empty product list")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) > 0 && !equalIDs(s.products, products) {
		s.logger.Printf("catalog: remote snapshot replaces diverged local state (local=%d remote=%d products)", len(s.products), len(products))
	}
	s.products = products
	return s.persistLocked()
}

// Refresh runs the three-tier read policy: adopt a non-empty remote list,
// otherwise keep whatever local/default state is already loaded. Remote
// failure is absorbed, never surfaced as an error to the read path.
func (s *Store) Refresh(ctx context.Context, fetch func(ctx context.Context) ([]domain.Product, error)) {
	products, err := fetch(ctx)
	if err != nil {
		s.logger.Printf("catalog: refresh falling back to cache: %v", err)
		return
	}
	if err := s.Adopt(products); err != nil {
		s.logger.Printf("catalog: refresh adopt: %v", err)
	}
}

// Slugify derives a URL-safe slug: lowercase, whitespace to hyphens,
// everything outside [a-z0-9-] stripped.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func (s *Store) indexByID(id int64) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) featuredCountLocked() int {
	count := 0
	for _, p := range s.products {
		if p.Featured {
			count++
		}
	}
	return count
}

func (s *Store) nextIDLocked() int64 {
	var max int64
	for _, p := range s.products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (s *Store) persistLocked() error {
	if err := s.store.Put(storageKey, s.products); err != nil {
		return fmt.Errorf("catalog: persist: %w", err)
	}
	return nil
}

func subset(sub, super []string) bool {
	set := make(map[string]struct{}, len(super))
	for _, v := range super {
		set[v] = struct{}{}
	}
	for _, v := range sub {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func equalIDs(a, b []domain.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Featured != b[i].Featured || a[i].Name != b[i].Name || a[i].PriceCents != b[i].PriceCents {
			return false
		}
	}
	return true
}
