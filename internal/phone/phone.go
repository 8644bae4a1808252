package phone

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

var ErrInvalidNumber = errors.New("invalid phone number")

// Normalize приводит телефон к цифрам E.164 без знака "+".
// Принимает как отформатированный ввод "(11) 99541-0041", так и
// номер с кодом страны "5511995410041".
func Normalize(raw, defaultRegion string) (string, error) {
	digits := keepDigits(raw)
	if digits == "" {
		return "", ErrInvalidNumber
	}

	// Сначала пробуем как международный номер, затем как национальный.
	parsed, err := libphonenumber.Parse("+"+digits, "ZZ")
	if err != nil || !libphonenumber.IsValidNumber(parsed) {
		parsed, err = libphonenumber.Parse(digits, defaultRegion)
		if err != nil {
			return "", ErrInvalidNumber
		}
	}

	if !libphonenumber.IsValidNumber(parsed) {
		return "", ErrInvalidNumber
	}

	return strings.TrimPrefix(libphonenumber.Format(parsed, libphonenumber.E164), "+"), nil
}

func keepDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
