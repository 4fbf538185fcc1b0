package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"inventory-adapter/internal/components/chrono"
	"inventory-adapter/internal/normalize"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// AlignNumbers right aligns the given (1 based) columns.
func AlignNumbers(t table.Writer, columns ...int) {
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		configs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	t.SetColumnConfigs(configs)
}

func Money(value float64) string {
	if value < 0 {
		return "-$" + normalize.FormatMoney(-value)
	}
	return "$" + normalize.FormatMoney(value)
}

func OptionalMoney(value *float64) string {
	if value == nil {
		return ""
	}
	return Money(*value)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return normalize.FormatDate(t)
}

func OptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Date(*t)
}

func OptionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func YesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// ParseDate reads a date flag, an empty value is the zero time.
func ParseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, ok := normalize.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("--%s: unrecognized date %q", flag, value)
	}
	return date, nil
}

// DateOrToday is ParseDate with an unset value meaning today on clock.
func DateOrToday(clock chrono.API, flag, value string) (time.Time, error) {
	date, err := ParseDate(flag, value)
	if err != nil || !date.IsZero() {
		return date, err
	}
	return chrono.Today(clock), nil
}
