package helper

import (
	"strconv"
	"strings"
)

// FormatSum renders a price as a grouped-thousands integer with the so'm
// currency suffix, e.g. 15000 -> "15 000 so'm". The separator is a literal
// space.
func FormatSum(sum int64) string {
	digits := strconv.FormatInt(sum, 10)

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if negative {
		out = "-" + out
	}
	return out + " so'm"
}
