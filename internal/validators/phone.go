package validators

import "strings"

// MinPhoneDigits is the shortest normalized phone accepted as a customer identity.
const MinPhoneDigits = 8

// NormalizePhone strips every non-digit character and, when the remaining
// digit count is exactly 10 or 11 (national number with area code), prepends
// countryCode. Any other length is returned as stripped digits.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	b.Grow(len(raw) + len(countryCode))

	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	switch len(digits) {
	case 10, 11:
		return countryCode + digits
	default:
		return digits
	}
}

// IsPhoneValid reports whether a normalized phone passes the minimum length gate.
func IsPhoneValid(normalized string) bool {
	return len(normalized) >= MinPhoneDigits
}
