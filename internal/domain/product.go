package domain

import "time"

// Product is one sneaker design in the catalog. InStock must always be a
// subset of Sizes.
type Product struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"priceCents"`
	Images      []string  `json:"images,omitempty"`
	Description string    `json:"description,omitempty"`
	Details     []string  `json:"details,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	InStock     []string  `json:"inStock,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductDraft carries the admin-supplied fields for a new product before
// the catalog assigns identity and defaults.
type ProductDraft struct {
	Name        string   `json:"name"`
	PriceCents  int64    `json:"priceCents"`
	Images      []string `json:"images,omitempty"`
	Description string   `json:"description,omitempty"`
	Details     []string `json:"details,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	InStock     []string `json:"inStock,omitempty"`
}
