package model

// ExpertiseInstance is one observation of a person demonstrating expertise.
// All fields participate in equality; duplicates are collapsed only when the
// whole record matches, so distinct evidence for the same area survives.
type ExpertiseInstance struct {
	PersonName string  `json:"person_name"`
	Area       string  `json:"area"`
	Evidence   string  `json:"evidence,omitempty"`
	Context    string  `json:"context,omitempty"`
	Confidence float64 `json:"confidence"`
}
