// Package format renders numbers the way the Indonesian UI displays them.
package format

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Number formats v with id-ID grouping and at most three fraction digits,
// e.g. 1234.5 -> "1.234,5".
func Number(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Integer formats a whole number with id-ID grouping.
func Integer(v int64) string {
	return printer.Sprint(number.Decimal(v))
}

// WithUnit appends a unit such as "Miliar" to the formatted number.
func WithUnit(v float64, unit string) string {
	if unit == "" {
		return Number(v)
	}
	return Number(v) + " " + unit
}

// Percent renders a percentage with one decimal and a dot separator.
func Percent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// Degree renders a membership degree with three decimals.
func Degree(d float64) string {
	return strconv.FormatFloat(d, 'f', 3, 64)
}

// ParseLeadingInt reads the integer at the start of s, ignoring thousands
// commas: "1,234 Miliar" -> 1234. It reports false when s has no leading digits.
func ParseLeadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := 0
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			end = i + 1
			continue
		}
		if !unicode.IsDigit(r) {
			break
		}
		end = i + 1
	}
	digits := s[:end]
	if digits == "" || digits == "-" || digits == "+" {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
