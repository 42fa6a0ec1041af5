package dto

// Page is the envelope for every list endpoint, driven by limit/offset
// query parameters.
type Page struct {
	Count   int64 `json:"count"`
	Results any   `json:"results"`
}

func NewPage(count int64, results any) Page {
	return Page{Count: count, Results: results}
}
