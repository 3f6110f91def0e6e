// Package render prints billing summaries for display and export.
// Users are always emitted in summary order.
package render

import (
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/mmynk/mealsplit/internal/format"
	"github.com/mmynk/mealsplit/internal/models"
)

type labels struct {
	deliveryFee, subtotal, delivery, total, grandTotal string
}

var (
	english = labels{"Delivery fee", "Subtotal", "Delivery", "Total", "Grand total"}
	arabic  = labels{"رسوم التوصيل", "المجموع الفرعي", "التوصيل", "الإجمالي", "الإجمالي الكلي"}
)

// Text writes a plain-text invoice for summary to w.
func Text(w io.Writer, summary *models.BillingSummary, lang language.Tag) error {
	l := english
	if format.IsArabic(lang) {
		l = arabic
	}
	money := func(v float64) string { return format.FormatCurrency(v, summary.Currency) }

	date := summary.Date
	if d, err := format.ParseDate(summary.Date); err == nil {
		date = format.FormatDate(d, lang)
	}

	p := &printer{w: w}
	p.printf("%s\n", summary.Restaurant)
	p.printf("%s, %s\n", format.MealTypeLabel(summary.MealType, lang), date)
	p.printf("%s: %s\n", l.deliveryFee, money(summary.DeliveryFee))

	for _, u := range summary.Users {
		p.printf("\n%s\n", u.Username)
		for _, it := range u.Items {
			name := it.Name
			if it.SelectedOption != nil && *it.SelectedOption != "" {
				name = fmt.Sprintf("%s (%s)", it.Name, *it.SelectedOption)
			}
			p.printf("  %d × %s @ %s = %s\n", it.Quantity, name, money(it.Price), money(it.LineTotal()))
		}
		p.printf("  %s: %s\n", l.subtotal, money(u.Subtotal))
		p.printf("  %s: %s\n", l.delivery, money(u.DeliveryShare))
		p.printf("  %s: %s\n", l.total, money(u.Total))
	}

	p.printf("\n%s: %s\n", l.grandTotal, money(summary.GrandTotal))
	return p.err
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(f string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, f, args...)
}
