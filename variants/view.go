package variants

// View is a rendered response, independent of where it is displayed.
type View struct {
	// Raw is the whole response body, pretty-printed.
	Raw      string    `json:"raw"`
	Notice   string    `json:"notice,omitempty"`
	Warning  string    `json:"warning,omitempty"`
	Summary  []Field   `json:"summary"`
	Sections []Section `json:"sections"`
	// Empty is set instead of Sections when the response holds no results.
	Empty string `json:"empty,omitempty"`
}

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is one result group, shown either as labeled fields with a record or as a grid.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields,omitempty"`
	Record string  `json:"record,omitempty"`
	Table  *Table  `json:"table,omitempty"`
}

type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SummaryValue returns the value of the summary field with the given label.
func (v *View) SummaryValue(label string) (string, bool) {
	for _, field := range v.Summary {
		if field.Label == label {
			return field.Value, true
		}
	}
	return "", false
}
