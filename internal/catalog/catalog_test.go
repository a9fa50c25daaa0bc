package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"kickslab/internal/devicestore"
	"kickslab/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *devicestore.Store) {
	t.Helper()
	local := devicestore.New(filepath.Join(t.TempDir(), "store.json"))
	s, err := New(local, nil)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return s, local
}

func draft(name string) domain.ProductDraft {
	return domain.ProductDraft{
		Name:       name,
		PriceCents: 21000,
		Images:     []string{"/images/test.jpg"},
	}
}

func TestNewSeedsDefaultsWhenCacheEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	if len(s.Products()) == 0 {
		t.Fatal("expected default catalog, got empty list")
	}
}

func TestAddValidation(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.Add(domain.ProductDraft{PriceCents: 100, Images: []string{"x"}}); err == nil || err.Error() != "name required" {
		t.Fatalf("expected name error, got %v", err)
	}
	if _, err := s.Add(domain.ProductDraft{Name: "X", Images: []string{"x"}}); err == nil || err.Error() != "price must be positive" {
		t.Fatalf("expected price error, got %v", err)
	}
	if _, err := s.Add(domain.ProductDraft{Name: "X", PriceCents: 100}); err == nil || err.Error() != "image required" {
		t.Fatalf("expected image error, got %v", err)
	}

	bad := draft("X")
	bad.Sizes = []string{"not-a-size"}
	if _, err := s.Add(bad); err == nil {
		t.Fatal("expected size validation error")
	}
}

func TestAddAssignsIdentityAndDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	before := len(s.Products())

	p, err := s.Add(draft("Ocean Beach Blue"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if p.Slug != "ocean-beach-blue" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if len(p.Sizes) == 0 {
		t.Fatal("expected sizes defaulted to full catalog")
	}
	if len(s.Products()) != before+1 {
		t.Fatal("product not appended")
	}

	got, err := s.BySlug("ocean-beach-blue")
	if err != nil || got.ID != p.ID {
		t.Fatalf("BySlug: %+v, %v", got, err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ocean Beach Blue":  "ocean-beach-blue",
		"  Fog City #2!  ":  "fog-city-2",
		"UPPER lower":       "upper-lower",
		"dots.and/slashes":  "dotsandslashes",
		"already-slugged-1": "already-slugged-1",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Products()[0].ID
	before := len(s.Products())

	err := s.Delete(id, ConfirmerFunc(func(string) bool { return false }))
	if !errors.Is(err, domain.ErrNotConfirmed) {
		t.Fatalf("expected not confirmed, got %v", err)
	}
	if len(s.Products()) != before {
		t.Fatal("declined delete mutated catalog")
	}

	if err := s.Delete(id, ConfirmerFunc(func(string) bool { return true })); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if len(s.Products()) != before-1 {
		t.Fatal("confirmed delete did not remove product")
	}
	if _, err := s.ByID(id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeaturedCap(t *testing.T) {
	s, local := newTestStore(t)

	// The default catalog ships with three featured products.
	if got := len(s.Featured()); got != 3 {
		t.Fatalf("expected 3 featured defaults, got %d", got)
	}

	p, err := s.Add(draft("Fourth Shoe"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var persisted []domain.Product
	if _, err := local.Get("kickslab_products", &persisted); err != nil {
		t.Fatalf("read persisted: %v", err)
	}

	if _, err := s.ToggleFeatured(p.ID); !errors.Is(err, domain.ErrFeaturedLimit) {
		t.Fatalf("expected featured limit, got %v", err)
	}
	if got := len(s.Featured()); got != 3 {
		t.Fatalf("featured set changed on rejected toggle: %d", got)
	}

	// The rejection must not write to storage either.
	var after []domain.Product
	if _, err := local.Get("kickslab_products", &after); err != nil {
		t.Fatalf("read persisted: %v", err)
	}
	if len(after) != len(persisted) {
		t.Fatal("rejected toggle wrote to storage")
	}
	for i := range after {
		if after[i].Featured != persisted[i].Featured {
			t.Fatal("rejected toggle changed persisted featured flags")
		}
	}

	// Unfeaturing is unconditional, and frees a slot.
	first := s.Featured()[0].ID
	if _, err := s.ToggleFeatured(first); err != nil {
		t.Fatalf("unfeature: %v", err)
	}
	if got, err := s.ToggleFeatured(p.ID); err != nil || !got.Featured {
		t.Fatalf("feature after free slot: %+v, %v", got, err)
	}
	if got := len(s.Featured()); got != 3 {
		t.Fatalf("expected 3 featured, got %d", got)
	}
}

func TestAdoptRejectsEmptyList(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Adopt(nil); err == nil {
		t.Fatal("expected error adopting empty list")
	}
}

func TestRefreshFallsBackOnError(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Products()

	s.Refresh(context.Background(), func(context.Context) ([]domain.Product, error) {
		return nil, errors.New("HTTP 500")
	})

	after := s.Products()
	if len(after) != len(before) {
		t.Fatal("failed refresh changed catalog state")
	}
	if len(after) == 0 {
		t.Fatal("catalog rendered empty after remote failure")
	}
}

func TestRefreshAdoptsRemoteState(t *testing.T) {
	s, local := newTestStore(t)

	remote := []domain.Product{
		{ID: 42, Slug: "remote-shoe", Name: "Remote Shoe", PriceCents: 21000},
	}
	s.Refresh(context.Background(), func(context.Context) ([]domain.Product, error) {
		return remote, nil
	})

	got := s.Products()
	if len(got) != 1 || got[0].ID != 42 {
		t.Fatalf("remote state not adopted: %+v", got)
	}

	// Adoption overwrites the local cache too.
	fresh, err := New(local, nil)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if got := fresh.Products(); len(got) != 1 || got[0].ID != 42 {
		t.Fatalf("local cache not overwritten: %+v", got)
	}
}

func TestHydratesFromLocalCache(t *testing.T) {
	local := devicestore.New(filepath.Join(t.TempDir(), "store.json"))
	first, err := New(local, nil)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := first.Add(draft("Cached Shoe")); err != nil {
		t.Fatalf("add: %v", err)
	}
	count := len(first.Products())

	second, err := New(local, nil)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if len(second.Products()) != count {
		t.Fatalf("hydrated %d products, want %d", len(second.Products()), count)
	}
}
