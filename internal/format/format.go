package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// Rupees formats a whole-rupee amount with the ₹ sign and no digit grouping.
// This is the form used in chat messages, selector labels and axis ticks.
// Example: Rupees(1000) => "₹1000"
func Rupees(amount int) string {
	if amount < 0 {
		return "-₹" + strconv.Itoa(-amount)
	}
	return "₹" + strconv.Itoa(amount)
}

// RupeeTick formats a chart axis tick the way the price chart labels it.
func RupeeTick(amount int) string {
	return Rupees(amount)
}

// RupeesGrouped formats amount with Indian digit grouping for hover text.
// Example: RupeesGrouped(150000) => "₹1,50,000"
func RupeesGrouped(amount int) string {
	if amount < 0 {
		return "-₹" + rupeePrinter.Sprintf("%d", -amount)
	}
	return "₹" + rupeePrinter.Sprintf("%d", amount)
}

// ISODate renders a YYYY-MM-DD date, the value format of an <input type="date">.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Title uppercases the first ASCII letter of s.
func Title(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
