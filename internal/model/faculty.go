package model

// Faculty is a member of teaching staff eligible to teach zero or more
// subjects, referenced by identifier rather than embedded record. The
// case-insensitive match against the subject master list lives in
// package eligibility, the single source of truth for that relation.
type Faculty struct {
	ID                  FacultyID
	Name                string
	EligibleSubjectRefs []string
}
