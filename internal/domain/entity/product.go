package entity

import "time"

// ProductStatus is the listing lifecycle. A single tagged status (instead of
// independent advertise/sold flags) makes advertised-and-sold unrepresentable.
type ProductStatus string

const (
	StatusListed     ProductStatus = "listed"
	StatusAdvertised ProductStatus = "advertised"
	StatusSold       ProductStatus = "sold"
)

// Product is a seller-owned listing. Reported and WishlistedBy are orthogonal
// to the lifecycle status; WishlistedBy holds only the most recent interested
// buyer.
type Product struct {
	ID           string        `json:"id"`
	CategoryID   string        `json:"category_id"`
	SellerEmail  string        `json:"seller_email"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"image_url"`
	Price        float64       `json:"price"`
	Status       ProductStatus `json:"status"`
	Paid         bool          `json:"paid"`
	Reported     bool          `json:"reported"`
	WishlistedBy *string       `json:"wishlisted_by,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Sold reports whether the listing has been settled.
func (p *Product) Sold() bool { return p.Status == StatusSold }
