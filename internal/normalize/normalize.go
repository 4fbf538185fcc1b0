// Package normalize turns the loosely formatted text found in the backend's
// table cells into numbers, dates and labels. None of these functions fail: money
// and counts are display data, so unreadable input becomes zero.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	innerWhitespace = regexp.MustCompile(`\s+`)
	decimal         = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// CleanText collapses whitespace, drops non-printable runes and turns
// non-breaking spaces (literal or as entity) into plain spaces.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "\u00a0", " ")

	var out strings.Builder
	for _, c := range text {
		if unicode.IsSpace(c) {
			out.WriteRune(' ')
			continue
		}
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(out.String(), " "))
}

func cleanNumber(text string) (cleaned string, negative bool) {
	text = CleanText(text)
	text = strings.ReplaceAll(text, " ", "")

	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}

	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "%", "")
	text = strings.TrimPrefix(text, "+")

	// -$5.00 and $-5.00 both end up as -5.00
	if strings.HasPrefix(text, "-") {
		negative = !negative
		text = text[1:]
	}
	text = strings.ReplaceAll(text, "$", "")
	text = strings.TrimPrefix(text, "+")
	if strings.HasPrefix(text, "-") {
		negative = !negative
		text = text[1:]
	}
	return text, negative
}

// ParseMoney parses a currency cell such as "$1,234.56", "($5.00)" or "-$5.00".
func ParseMoney(text string) float64 {
	cleaned, negative := cleanNumber(text)
	// ParseFloat also takes nan, inf and hex floats
	if !decimal.MatchString(cleaned) {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) {
		return 0
	}
	if negative {
		return -value
	}
	return value
}

// ParsePercent parses "12.5%" as 12.5.
func ParsePercent(text string) float64 {
	return ParseMoney(text)
}

// ParseInt parses a count cell, tolerating separators and surrounding text
// like "3 items".
func ParseInt(text string) int {
	cleaned, negative := cleanNumber(text)
	end := 0
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.Atoi(cleaned[:end])
	if err != nil {
		return 0
	}
	if negative {
		return -value
	}
	return value
}

var moneyShape = regexp.MustCompile(`^\(?[-+]?\$?[-+]?\d[\d,]*(\.\d+)?\)?$`)

// LooksLikeMoney reports whether a cell holds a single numeric amount. When
// requireSymbol is set, the amount must carry a dollar sign.
func LooksLikeMoney(text string, requireSymbol bool) bool {
	text = strings.ReplaceAll(CleanText(text), " ", "")
	if requireSymbol && !strings.Contains(text, "$") {
		return false
	}
	return moneyShape.MatchString(text)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006",
	"2 Jan 2006",
}

// ParseDate tries each layout the backend has been seen to render.
func ParseDate(text string) (time.Time, bool) {
	text = CleanText(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date the way the backend's forms expect it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatMoney renders an amount for a form post.
func FormatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
