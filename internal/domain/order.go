package domain

import "time"

// CartOrder status values. closed is terminal.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// CartOrder is the single active shopping cart for a customer. TotalAmount
// is derived: it always equals the sum of PriceAtOrderTime*Quantity over
// Items and is recomputed on every mutation.
type CartOrder struct {
	OrderID      string      `json:"order_id"`
	CustomerID   string      `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Status       string      `json:"status"`
	TotalAmount  int64       `json:"total_amount"`
	Comment      string      `json:"comment"`
	CreatedDate  time.Time   `json:"created_date"`
	UpdatedDate  time.Time   `json:"updated_date"`
	Items        []OrderItem `json:"items"`
}

// OrderItem is one line entry within a CartOrder. Items are immutable once
// created; the only mutation is removal while the order is still open.
type OrderItem struct {
	ID               string    `json:"id"`
	LicenseID        string    `json:"license_id"`
	LicenseName      string    `json:"license_name"`
	Quantity         int       `json:"quantity"`
	PriceAtOrderTime int64     `json:"price_at_order_time"`
	CreatedBy        string    `json:"created_by"`
	CreatedDate      time.Time `json:"created_date"`
}

// Open reports whether the order still accepts item mutations.
func (o *CartOrder) Open() bool {
	return o.Status == StatusOpen
}

// RecomputeTotal rederives TotalAmount from the remaining items.
func (o *CartOrder) RecomputeTotal() {
	var total int64
	for _, it := range o.Items {
		total += it.PriceAtOrderTime * int64(it.Quantity)
	}
	o.TotalAmount = total
}

// Clone returns a deep copy so callers can hand out orders without sharing
// the items slice with stored state.
func (o *CartOrder) Clone() *CartOrder {
	cp := *o
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}
