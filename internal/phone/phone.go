// Package phone canonicalizes phone numbers at every write boundary so that
// local and international representations of the same number compare equal.
package phone

import "strings"

const countryPrefix = "82"

// Normalize strips all non-digit characters and converts international
// Korean numbers ("82..." longer than 10 digits) to local "0..." form.
// Idempotent; empty or nil-ish input yields "".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) > 10 && strings.HasPrefix(digits, countryPrefix) {
		return "0" + digits[len(countryPrefix):]
	}
	return digits
}

// BridgeFormat converts a local number to the international form the bridge
// device requires: "0XXXXXXXXXX" becomes "+82XXXXXXXXXX".
// Input is normalized first, so any representation is accepted.
func BridgeFormat(raw string) string {
	n := Normalize(raw)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "0") {
		return "+" + countryPrefix + n[1:]
	}
	return "+" + n
}

// Suffix8 returns the last 8 digits of the normalized number, the key used
// for inbound correlation. Shorter numbers are returned whole.
func Suffix8(raw string) string {
	n := Normalize(raw)
	if len(n) <= 8 {
		return n
	}
	return n[len(n)-8:]
}
