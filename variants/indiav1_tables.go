package variants

func init() {
	Register(&Indiav1Tables{descriptor: descriptor{
		name:            "indiav1-tables",
		title:           "Indiav1 Enforcement Check API - Table View",
		description:     "Partial or exact enforcement search with matches shown as tables.",
		defaultEndpoint: indiav1Endpoint,
		secretPrefix:    "indiav1_tables",
		searchTypes:     []string{"partial", "exact"},
		requiresUserID:  true,
	}})
}

// Indiav1Tables sends the full enforcement request and shows matches grouped by table.
type Indiav1Tables struct {
	descriptor
}

func (v *Indiav1Tables) BuildPayload(submission Submission) any {
	return enforcementRequest{
		Query:      submission.Query,
		SearchType: submission.SearchType,
		UserID:     submission.UserID,
	}
}

func (v *Indiav1Tables) Render(body []byte) (*View, error) {
	return renderTableGroups(body)
}
