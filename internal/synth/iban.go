package synth

import (
	"strconv"
	"strings"
)

// GermanIBAN builds a DE IBAN from an 8 digit Bankleitzahl and a 10 digit
// account number, with ISO 13616 check digits.
func GermanIBAN(routingCode, account string) string {
	bban := routingCode + account
	check := 98 - mod97(bban+ibanDigits("DE")+"00")
	return "DE" + twoDigits(check) + bban
}

// ValidIBAN reports whether s carries correct ISO 13616 check digits.
func ValidIBAN(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) < 5 {
		return false
	}
	rearranged := s[4:] + s[:4]
	var digits strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			digits.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return false
		}
	}
	return mod97(digits.String()) == 1
}

func ibanDigits(country string) string {
	var b strings.Builder
	for _, r := range country {
		b.WriteString(strconv.Itoa(int(r-'A') + 10))
	}
	return b.String()
}

// mod97 computes n mod 97 for a decimal digit string of any length.
func mod97(n string) int {
	rem := 0
	for _, r := range n {
		rem = (rem*10 + int(r-'0')) % 97
	}
	return rem
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
