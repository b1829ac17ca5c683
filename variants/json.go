package variants

import (
	"errors"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const notAvailable = "N/A"

var ErrInvalidJSON = errors.New("response body is not valid JSON")

func parse(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.ParseBytes(body), nil
}

// scalar renders a value for display. Absent and null values become fallback,
// objects and arrays keep their JSON text.
func scalar(value gjson.Result, fallback string) string {
	if !present(value) {
		return fallback
	}
	if value.IsObject() || value.IsArray() {
		return value.Raw
	}
	return value.String()
}

func present(value gjson.Result) bool {
	return value.Exists() && value.Type != gjson.Null
}

// list returns the elements of value, or nil when value is not an array.
func list(value gjson.Result) []gjson.Result {
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}

func prettyJSON(raw []byte) string {
	return strings.TrimRight(string(pretty.Pretty(raw)), "\n")
}

// buildTable lays flat records out as a grid. Columns are the record keys in the order they
// are first seen; a record without a column gets an empty cell.
func buildTable(records []gjson.Result) *Table {
	records = lo.Filter(records, func(record gjson.Result, _ int) bool {
		return record.IsObject()
	})

	var columns []string
	cells := make([]map[string]string, 0, len(records))
	for _, record := range records {
		values := make(map[string]string)
		record.ForEach(func(key, value gjson.Result) bool {
			columns = append(columns, key.String())
			values[key.String()] = scalar(value, "")
			return true
		})
		cells = append(cells, values)
	}
	columns = lo.Uniq(columns)

	rows := lo.Map(cells, func(values map[string]string, _ int) []string {
		return lo.Map(columns, func(column string, _ int) string {
			return values[column]
		})
	})

	return &Table{Columns: columns, Rows: rows}
}
