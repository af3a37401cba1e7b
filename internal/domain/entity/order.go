package entity

import "time"

// Order is a buyer-owned transaction record. SellerEmail is denormalized from
// the product so seller-side queries need no join.
type Order struct {
	ID          string    `json:"id"`
	BuyerEmail  string    `json:"buyer_email"`
	SellerEmail string    `json:"seller_email"`
	ProductID   string    `json:"product_id"`
	Price       float64   `json:"price"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
}

// SettlementResult reports each side of the dual-record finalize individually
// so a caller can reconcile. With the transactional coordinator both flags are
// true on success and false when the settlement was already applied.
type SettlementResult struct {
	OrderApplied   bool `json:"order_applied"`
	ProductApplied bool `json:"product_applied"`
}
