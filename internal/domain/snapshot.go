package domain

import (
	"encoding/json"
	"time"
)

// Dataset names addressable through the snapshot endpoints.
const (
	DatasetProducts = "products"
	DatasetEvents   = "events"
)

// SnapshotDocument is one versioned JSON document in the snapshot store.
// Version is the optimistic concurrency token: a Put must present the
// version it read, and the first write presents zero.
type SnapshotDocument struct {
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Event is one entry in the events dataset.
type Event struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location,omitempty"`
	Details  string `json:"details,omitempty"`
}
