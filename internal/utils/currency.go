package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount with the rupee sign and Indian digit grouping
// (₹1,23,456.78). Amounts stay decimal through all arithmetic; this is the
// only place they become display text.
func FormatINR(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	grouped := groupIndian(intPart)

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")
	b.WriteString(grouped)
	b.WriteString(".")
	b.WriteString(fracPart)
	return b.String()
}

// groupIndian applies the 3-then-2 grouping used for rupee amounts.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
