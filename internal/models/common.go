package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
}

// RequestContext carries request provenance into governance writes. It is
// threaded explicitly so storage code never reads ambient request state.
type RequestContext struct {
	SourceIP  string
	UserAgent string
}

// Actor identifies the user performing a governed operation. The zero value
// means anonymous.
type Actor struct {
	ID    string
	Email string
}

// IsAnonymous reports whether no actor identity is attached.
func (a Actor) IsAnonymous() bool {
	return a.ID == "" && a.Email == ""
}
