package models

// CartItem is one entry of a checkout request as sent by the frontend.
// Price and Qty are kept untyped: clients send them both as JSON numbers and
// as strings, and the bridge applies soft defaults instead of rejecting.
type CartItem struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Price any    `json:"price"`
	Qty   any    `json:"qty"`
}

// LineItem is the processor-facing shape of one purchasable unit.
// UnitAmount is in minor currency units (paise for INR).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}
