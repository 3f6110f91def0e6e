package models

// BillingSummary is the invoice for one billing slot
// (restaurant + meal type + date).
type BillingSummary struct {
	// Date is the billing date as passed by the caller (YYYY-MM-DD).
	Date string

	MealType MealType

	// Restaurant is the restaurant display name.
	Restaurant string

	RestaurantID string

	// DeliveryFee is the flat fee as configured on the restaurant.
	DeliveryFee float64

	// Users are in the order their username was first seen in the orders.
	Users []BillingUser

	// GrandTotal is the sum of Users[].Total.
	GrandTotal float64

	// Currency is the display name used when rendering amounts. The
	// calculator leaves it empty; the billing service fills it in.
	Currency string
}

// BillingUser is one user's aggregated share of a billing slot.
type BillingUser struct {
	Username string

	// Items are all line items across the user's orders, in order.
	Items []BillingItem

	// Subtotal is Σ price × quantity over Items.
	Subtotal float64

	// DeliveryShare is DeliveryFee divided equally among all users.
	DeliveryShare float64

	// Total is Subtotal + DeliveryShare.
	Total float64
}

// BillingItem is a line item as it appears on an invoice.
type BillingItem struct {
	Name           string
	Price          float64
	Quantity       int
	SelectedOption *string
}

// LineTotal returns Price × Quantity.
func (i BillingItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
