package domain

// Candidate is a row from the candidate store. It is serialized as-is into
// tool outputs for the assistant to reason about.
type Candidate struct {
	UserID         string   `json:"user_id"`
	FullName       string   `json:"full_name"`
	FullTime       bool     `json:"full_time"`
	FullTimeSalary *float64 `json:"full_time_salary,omitempty"`
	PartTimeSalary *float64 `json:"part_time_salary,omitempty"`
	MatchedSkills  int      `json:"matched_skills,omitempty"`
}

// QueryArgs holds tool arguments after validation. Nil fields mean the
// assistant did not constrain that dimension; they are computed fresh per
// tool call and never persisted.
type QueryArgs struct {
	FullTime *bool
	Budget   *float64
	Skills   []string
}

// CandidateFilter describes a bounded read against the candidate store.
// Any subset of the filter fields may be absent.
type CandidateFilter struct {
	FullTime *bool
	Budget   *float64
	Skills   []string
	Limit    int
}
