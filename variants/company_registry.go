package variants

import (
	"fmt"
	"strings"
)

func init() {
	Register(&CompanyRegistry{descriptor: descriptor{
		name:         "company-registry",
		title:        "Company Registry Search",
		description:  "Look up companies and directors by name, PAN, CIN or DIN.",
		secretPrefix: "company_registry",
		searchTypes:  []string{"all", "pan", "cin", "din", "company_name", "director_name"},
	}})
}

// CompanyRegistry talks to a separate registry service that returns flat records.
type CompanyRegistry struct {
	descriptor
}

type registryRequest struct {
	SearchTerm string `json:"search_term"`
	SearchType string `json:"search_type"`
}

func (v *CompanyRegistry) BuildPayload(submission Submission) any {
	return registryRequest{
		SearchTerm: submission.Query,
		SearchType: submission.SearchType,
	}
}

func (v *CompanyRegistry) Render(body []byte) (*View, error) {
	root, err := parse(body)
	if err != nil {
		return nil, err
	}

	view := &View{
		Raw: prettyJSON(body),
		Summary: []Field{
			{Label: "Total Results", Value: scalar(root.Get("total_results"), notAvailable)},
		},
	}

	if success := root.Get("success"); present(success) && !success.Bool() {
		view.Warning = strings.TrimSpace("The API reported the search as unsuccessful. " + scalar(root.Get("message"), ""))
	}

	results := list(root.Get("results"))
	if len(results) == 0 {
		view.Empty = "No results found."
		return view, nil
	}

	view.Notice = fmt.Sprintf("Found %d results.", len(results))
	view.Sections = []Section{{
		Title: "Results",
		Table: buildTable(results),
	}}

	return view, nil
}
