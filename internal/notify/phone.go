package notify

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion applies to numbers entered without a country code.
const defaultPhoneRegion = "US"

// NormalizePhone converts a phone number to E.164. Numbers without a
// country code are read as US numbers. Local-only numbers are rejected
// because SMS delivery needs the full number.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: phone is required", ErrInvalidPhone)
	}
	if i := strings.IndexFunc(raw, notPhoneRune); i >= 0 {
		return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidPhone, raw[i])
	}

	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if phonenumbers.IsPossibleNumberWithReason(num) != phonenumbers.IS_POSSIBLE {
		return "", fmt.Errorf("%w: not a dialable number", ErrInvalidPhone)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func notPhoneRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '+' || r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		return false
	}
	return true
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
