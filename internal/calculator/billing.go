// Package calculator turns group orders into per-user invoices.
package calculator

import (
	"github.com/mmynk/mealsplit/internal/models"
)

// CalculateBilling groups orders by username and splits the delivery fee
// equally among the distinct users found.
//
// Algorithm:
// - Scan orders once; each username gets a bucket on first sight
// - Every line item is copied into its owner's bucket, subtotal += price × quantity
// - delivery_share = delivery_fee / user_count (no rounding)
// - total = subtotal + delivery_share, grand_total = Σ total
//
// Users keep first-seen order. The input is not modified. An empty order
// list yields no users and GrandTotal == deliveryFee; callers are expected
// to reject that case before calling.
func CalculateBilling(
	orders []models.Order,
	deliveryFee float64,
	restaurantName string,
	restaurantID string,
	mealType models.MealType,
	date string,
) *models.BillingSummary {
	users := make([]models.BillingUser, 0)
	index := make(map[string]int)

	for _, order := range orders {
		username := order.User.Username
		i, seen := index[username]
		if !seen {
			i = len(users)
			index[username] = i
			users = append(users, models.BillingUser{Username: username})
		}

		bucket := &users[i]
		for _, li := range order.Items {
			bucket.Items = append(bucket.Items, models.BillingItem{
				Name:           li.MenuItem.Name,
				Price:          li.Price,
				Quantity:       li.Quantity,
				SelectedOption: cloneOption(li.SelectedOption),
			})
			bucket.Subtotal += li.Price * float64(li.Quantity)
		}
	}

	var share float64
	if len(users) > 0 {
		share = deliveryFee / float64(len(users))
	}

	summary := &models.BillingSummary{
		Date:         date,
		MealType:     mealType,
		Restaurant:   restaurantName,
		RestaurantID: restaurantID,
		DeliveryFee:  deliveryFee,
		Users:        users,
	}

	if len(users) == 0 {
		// Nothing to split; the fee stands alone.
		summary.GrandTotal = deliveryFee
		return summary
	}

	for i := range users {
		users[i].DeliveryShare = share
		users[i].Total = users[i].Subtotal + share
		summary.GrandTotal += users[i].Total
	}

	return summary
}

func cloneOption(opt *string) *string {
	if opt == nil {
		return nil
	}
	v := *opt
	return &v
}
