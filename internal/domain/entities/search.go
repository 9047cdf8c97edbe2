package entities

// SearchParams are the directory search filters exposed by the API,
// mirroring the business-search vendor's query surface.
type SearchParams struct {
	Term       string `json:"term,omitempty"`
	Location   string `json:"location"`
	Price      string `json:"price,omitempty"`
	Categories string `json:"categories,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
}

// Normalize applies the defaults the directory vendor expects.
func (p *SearchParams) Normalize() {
	if p.Term == "" {
		p.Term = "restaurants"
	}
	if p.Limit <= 0 || p.Limit > 50 {
		p.Limit = 20
	}
	if p.SortBy == "" {
		p.SortBy = "best_match"
	}
}
