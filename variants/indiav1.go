package variants

import "fmt"

const indiav1Endpoint = "https://ljnzkgwbtqoxpztwupli.supabase.co/functions/v1/indiav1"

func init() {
	Register(&Indiav1{descriptor: descriptor{
		name:            "indiav1",
		title:           "Indiav1 Enforcement Check API - Enforcement Record Search",
		description:     "Query the Indiav1 Enforcement Check API for enforcement records.",
		defaultEndpoint: indiav1Endpoint,
		secretPrefix:    "indiav1",
		searchTypes:     []string{"partial", "exact"},
		requiresUserID:  true,
	}})
}

// Indiav1 lists every enforcement match with its matched field and the full record.
type Indiav1 struct {
	descriptor
}

type enforcementRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"searchType"`
	UserID     string `json:"userId"`
}

func (v *Indiav1) BuildPayload(submission Submission) any {
	return enforcementRequest{
		Query:      submission.Query,
		SearchType: submission.SearchType,
		UserID:     submission.UserID,
	}
}

func (v *Indiav1) Render(body []byte) (*View, error) {
	root, err := parse(body)
	if err != nil {
		return nil, err
	}

	view := &View{
		Raw:    prettyJSON(body),
		Notice: fmt.Sprintf("API call successful in %s.", scalar(root.Get("execution_time"), notAvailable)),
		Summary: []Field{
			{Label: "Total Matches", Value: scalar(root.Get("total_matches"), notAvailable)},
		},
	}

	matches := list(root.Get("matches"))
	if len(matches) == 0 {
		view.Empty = "No enforcement matches found."
		return view, nil
	}

	for _, match := range matches {
		record := []byte("{}")
		if r := match.Get("record"); present(r) {
			record = []byte(r.Raw)
		}
		table := scalar(match.Get("table"), "")
		view.Sections = append(view.Sections, Section{
			Title: table,
			Fields: []Field{
				{Label: "Table Name", Value: table},
				{Label: "Matched Field", Value: scalar(match.Get("field"), "")},
				{Label: "Matched Value", Value: scalar(match.Get("value"), "")},
			},
			Record: prettyJSON(record),
		})
	}

	return view, nil
}
