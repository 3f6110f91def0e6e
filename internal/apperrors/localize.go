package apperrors

import (
	"errors"

	"golang.org/x/text/language"
)

var localeMatcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

var messages = map[string][2]string{
	CodeNotFound:     {"The requested restaurant could not be found.", "لم يتم العثور على المطعم المطلوب."},
	CodeInvalidInput: {"The billing request is invalid.", "طلب الفاتورة غير صالح."},
	CodeNoOrders:     {"There are no orders for this selection.", "لا توجد طلبات لهذا الاختيار."},
	CodeInternal:     {"Something went wrong while preparing the bill.", "حدث خطأ أثناء إعداد الفاتورة."},
}

// Localize returns the user-facing message for err in lang.
// Details of an invalid-input error are appended in English.
func Localize(err error, lang language.Tag) string {
	if err == nil {
		return ""
	}
	_, i, _ := localeMatcher.Match(lang)

	code := Code(err)
	msg := messages[code][i]

	var appErr *AppError
	if code == CodeInvalidInput && errors.As(err, &appErr) && appErr.Message != "" {
		msg += " (" + appErr.Message + ")"
	}
	return msg
}
