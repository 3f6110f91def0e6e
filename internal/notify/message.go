// Package notify tells each billed user what they owe.
//
// A Dispatcher composes one Message per BillingUser and hands it to the
// Sender registered for each of the user's channels. Sends run in
// parallel and a failed send only affects that user's Delivery.
package notify

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/mmynk/mealsplit/internal/format"
	"github.com/mmynk/mealsplit/internal/models"
)

// Message is the payload delivered to one user.
type Message struct {
	Username string `json:"username"`

	// Address is the channel-specific destination. Empty means the sender
	// derives one from Username.
	Address string `json:"address,omitempty"`

	Subject    string          `json:"subject"`
	Body       string          `json:"body"`
	Restaurant string          `json:"restaurant"`
	MealType   models.MealType `json:"meal_type"`
	Date       string          `json:"date"`
	Total      float64         `json:"total"`
	Currency   string          `json:"currency,omitempty"`
}

// ComposeMessage builds the notice for user from summary in lang.
func ComposeMessage(summary *models.BillingSummary, user models.BillingUser, lang language.Tag) Message {
	meal := format.MealTypeLabel(summary.MealType, lang)
	total := format.FormatCurrency(user.Total, summary.Currency)

	date := summary.Date
	if d, err := format.ParseDate(summary.Date); err == nil {
		date = format.FormatDate(d, lang)
	}

	msg := Message{
		Username:   user.Username,
		Restaurant: summary.Restaurant,
		MealType:   summary.MealType,
		Date:       summary.Date,
		Total:      user.Total,
		Currency:   summary.Currency,
	}

	if format.IsArabic(lang) {
		msg.Subject = fmt.Sprintf("فاتورة %s - %s", meal, summary.Date)
		msg.Body = fmt.Sprintf("مرحباً %s، إجمالي طلب %s من %s بتاريخ %s هو %s.",
			user.Username, meal, summary.Restaurant, date, total)
		return msg
	}

	msg.Subject = fmt.Sprintf("%s bill - %s", meal, summary.Date)
	msg.Body = fmt.Sprintf("Hi %s, your %s from %s on %s comes to %s.",
		user.Username, meal, summary.Restaurant, date, total)
	return msg
}
