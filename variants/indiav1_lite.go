package variants

func init() {
	Register(&Indiav1Lite{descriptor: descriptor{
		name:            "indiav1-lite",
		title:           "Indiav1 Enforcement Check API - Quick Search",
		description:     "Search enforcement records by free text, grouped by source table.",
		defaultEndpoint: indiav1Endpoint,
		secretPrefix:    "indiav1_lite",
		requiresUserID:  true,
	}})
}

// Indiav1Lite sends only the query and user id and shows matches grouped by table.
type Indiav1Lite struct {
	descriptor
}

type liteRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
}

func (v *Indiav1Lite) BuildPayload(submission Submission) any {
	return liteRequest{
		Query:  submission.Query,
		UserID: submission.UserID,
	}
}

func (v *Indiav1Lite) Render(body []byte) (*View, error) {
	return renderTableGroups(body)
}
