package variants

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// renderTableGroups reads responses shaped as
//
//	{"totalMatches": 5, "executionTimeMs": 12, "results": [{"table": "t1", "matches": [{...}]}]}
//
// into one grid section per table.
func renderTableGroups(body []byte) (*View, error) {
	root, err := parse(body)
	if err != nil {
		return nil, err
	}

	executionTime := notAvailable
	if elapsed := root.Get("executionTimeMs"); present(elapsed) {
		executionTime = fmt.Sprintf("%s ms", scalar(elapsed, notAvailable))
	}

	view := &View{
		Raw:    prettyJSON(body),
		Notice: fmt.Sprintf("API call successful in %s.", executionTime),
		Summary: []Field{
			{Label: "Total Matches", Value: scalar(root.Get("totalMatches"), notAvailable)},
			{Label: "Execution Time", Value: executionTime},
		},
	}

	groups := list(root.Get("results"))
	if len(groups) == 0 {
		view.Empty = "No matches found."
		return view, nil
	}

	for _, group := range groups {
		view.Sections = append(view.Sections, tableSection(group))
	}

	return view, nil
}

func tableSection(group gjson.Result) Section {
	table := buildTable(list(group.Get("matches")))
	return Section{
		Title: scalar(group.Get("table"), ""),
		Fields: []Field{
			{Label: "Records", Value: fmt.Sprintf("%d", len(table.Rows))},
		},
		Table: table,
	}
}
