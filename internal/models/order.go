package models

import "time"

// MealType is a coarse time-of-day bucket used to separate billing runs.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealDessert   MealType = "dessert"
)

// MealTypes lists every known meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealDessert}

// IsValid reports whether m is one of the known meal types.
func (m MealType) IsValid() bool {
	for _, t := range MealTypes {
		if t == m {
			return true
		}
	}
	return false
}

// Order is one user's order placed against a restaurant for a meal slot.
// All orders handed to the calculator share the same restaurant, meal type
// and date; filtering happens in storage.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// User placed the order. Required.
	User *User

	// Restaurant the order was placed against.
	Restaurant *Restaurant

	MealType MealType

	// OrderedAt is when the order was placed.
	OrderedAt time.Time

	// Items are the purchased line items in the order they were added.
	Items []OrderLineItem
}

// OrderLineItem is a single purchased menu item.
type OrderLineItem struct {
	MenuItem MenuItem

	// Price is the unit price captured when the order was placed.
	Price float64

	// Quantity is a positive count.
	Quantity int

	// SelectedOption is an optional variant such as a size or flavor.
	SelectedOption *string
}

// LineTotal returns Price × Quantity.
func (li OrderLineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}
