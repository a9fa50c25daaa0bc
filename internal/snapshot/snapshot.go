// Package snapshot reads and writes the remote JSON snapshots that stand in
// for a database. Reads are cache-busted so every call reaches the origin;
// writes go through a Writer backend.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"kickslab/internal/domain"
)

// ErrNoData marks a read that reached the origin but found nothing usable:
// a non-array body or an empty array. Callers fall back to their cache.
var ErrNoData = errors.New("snapshot: no data")

// Writer commits a serialized dataset to the remote store. Implementations
// must surface every non-success response as an error and never retry.
type Writer interface {
	Write(ctx context.Context, dataset string, content []byte, message string) error
}

// Reader fetches snapshot JSON arrays with caching defeated at both the
// HTTP and intermediary layers.
type Reader struct {
	client  *http.Client
	baseURL string
}

// NewReader builds a Reader against baseURL (the snapshot origin serving
// <baseURL>/<dataset>.json). client may be nil.
func NewReader(client *http.Client, baseURL string) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Reader{client: client, baseURL: baseURL}
}

// FetchProducts reads the products dataset.
func (r *Reader) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.fetchArray(ctx, domain.DatasetProducts, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoData
	}
	return products, nil
}

// FetchEvents reads the events dataset.
func (r *Reader) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := r.fetchArray(ctx, domain.DatasetEvents, &events); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoData
	}
	return events, nil
}

func (r *Reader) fetchArray(ctx context.Context, dataset string, out interface{}) error {
	url := fmt.Sprintf("%s/%s.json?%s", r.baseURL, dataset, CacheBustParam())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("snapshot: build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("snapshot: fetch %s: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("snapshot: fetch %s: status %d", dataset, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("snapshot: read %s: %w", dataset, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		// Non-array payloads count as "no data", not as hard failures.
		return ErrNoData
	}
	return nil
}

// CacheBustParam returns a unique time-and-random query parameter so no
// intermediate cache can serve a stale snapshot.
func CacheBustParam() string {
	return fmt.Sprintf("t=%d-%d", time.Now().UnixNano(), rand.Int63())
}
