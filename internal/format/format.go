// Package format renders amounts, dates and meal types for invoices and
// notifications.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/mmynk/mealsplit/internal/models"
)

// DateLayout is the wire format of billing dates.
const DateLayout = "2006-01-02"

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// ParseLang parses a BCP 47 tag such as "en" or "ar-EG".
// Unparseable input yields English.
func ParseLang(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// base maps any tag to one of the supported languages.
func base(lang language.Tag) language.Tag {
	_, i, conf := matcher.Match(lang)
	if conf == language.No {
		return language.English
	}
	return supported[i]
}

// IsArabic reports whether lang resolves to Arabic output.
func IsArabic(lang language.Tag) bool {
	return base(lang) == language.Arabic
}

// FormatCurrency renders amount with two decimals followed by the currency
// name, e.g. "47.50 EGP".
func FormatCurrency(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// ParseDate parses a YYYY-MM-DD billing date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a long localized date, e.g. "Wednesday, 14 October 2026".
func FormatDate(date time.Time, lang language.Tag) string {
	if base(lang) == language.Arabic {
		return fmt.Sprintf("%s، %d %s %d",
			arabicWeekdays[date.Weekday()], date.Day(), arabicMonths[date.Month()-1], date.Year())
	}
	return fmt.Sprintf("%s, %d %s %d", date.Weekday(), date.Day(), date.Month(), date.Year())
}

// MealTypeLabel returns the localized label for m. Unknown meal types are
// returned verbatim.
func MealTypeLabel(m models.MealType, lang language.Tag) string {
	labels := englishMeals
	if base(lang) == language.Arabic {
		labels = arabicMeals
	}
	if label, ok := labels[m]; ok {
		return label
	}
	return string(m)
}

var englishMeals = map[models.MealType]string{
	models.MealBreakfast: "Breakfast",
	models.MealLunch:     "Lunch",
	models.MealDinner:    "Dinner",
	models.MealDessert:   "Dessert",
}

var arabicMeals = map[models.MealType]string{
	models.MealBreakfast: "فطار",
	models.MealLunch:     "غداء",
	models.MealDinner:    "عشاء",
	models.MealDessert:   "حلويات",
}

var arabicWeekdays = [...]string{
	"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت",
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}
