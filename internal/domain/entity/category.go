package entity

import "time"

// Category is a product taxonomy label. Names are stored lower-case and
// compared lower-case, so uniqueness is case-insensitive.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"` // seller email
	CreatedAt time.Time `json:"created_at"`
}
