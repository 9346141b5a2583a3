package money

import (
	"strconv"
	"strings"
)

// FormatINR renders an amount as Indian rupees with en-IN digit
// grouping: the last three integer digits form one group, every pair
// after that its own. 12345678.90 → "₹1,23,45,678.90".
func FormatINR(a Amount) string {
	minor := int64(a)
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	intDigits := strconv.FormatInt(minor/100, 10)
	frac := minor % 100

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("₹")
	b.WriteString(groupIndian(intDigits))
	b.WriteByte('.')
	b.WriteByte(byte('0' + frac/10))
	b.WriteByte(byte('0' + frac%10))
	return b.String()
}

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
