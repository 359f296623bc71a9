// Package phone normalizes free-form phone numbers for storage and display.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalid is returned for numbers that are not possible in any region.
var ErrInvalid = errors.New("phone number not possible")

// Normalize parses raw without a default region (so it must carry its +CC prefix)
// and returns the E.164 form. Normalizing an E.164 string returns it unchanged.
func Normalize(raw string) (string, error) {
	num, err := parse(raw)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Display formats a stored number in international notation.
func Display(stored string) (string, error) {
	num, err := parse(stored)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), nil
}

func parse(raw string) (*phonenumbers.PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalid)
	}
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, raw)
	}
	return num, nil
}
