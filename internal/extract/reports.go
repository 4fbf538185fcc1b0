package extract

// ReportRow is a data row of a report table: the day (or other key) label and
// the remaining cells as raw text.
type ReportRow struct {
	Label  string
	Values []string
}

// ReportRows reads every report table row that has a label and at least
// minValues further cells. Header and totals rows are dropped.
func ReportRows(p *Page, minValues int) []ReportRow {
	var out []ReportRow
	for _, row := range Rows(p) {
		if row.Len() < minValues+1 {
			continue
		}
		label := row.Text(0)
		if IsSentinel(label) {
			continue
		}
		values := make([]string, 0, row.Len()-1)
		for i := 1; i < row.Len(); i++ {
			values = append(values, row.Text(i))
		}
		out = append(out, ReportRow{Label: label, Values: values})
	}
	return out
}

// Value returns the i-th value cell, or "" past the end of the row.
func (r ReportRow) Value(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}
