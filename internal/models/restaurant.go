package models

// Restaurant represents a vendor that group orders are placed against.
type Restaurant struct {
	// ID is the unique identifier for the restaurant (UUID format).
	ID string

	// Name is shown on invoices and notifications.
	Name string

	// DeliveryFee is the flat fee charged once per billing slot,
	// independent of how many orders were placed.
	DeliveryFee float64

	// Currency is the display name appended to formatted amounts (e.g. "EGP").
	Currency string

	// CreatedAt is the Unix timestamp when the restaurant was created.
	CreatedAt int64
}

// MenuItem is a catalog entry of a restaurant.
type MenuItem struct {
	ID           string
	RestaurantID string
	Name         string

	// Price is the live catalog price. Billing never reads it; orders carry
	// their own snapshot in OrderLineItem.Price.
	Price float64
}
