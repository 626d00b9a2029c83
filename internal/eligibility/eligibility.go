// Package eligibility derives the faculty->subjects relation (and its
// inverse) from case-insensitive subject identifier matching.
package eligibility

import (
	"sort"
	"strings"

	"github.com/udp-timetabling/scheduler-core/internal/model"
)

// Relation holds both directions of the faculty<->subject eligibility
// mapping, keyed by canonical (subject-master-cased) identifiers.
type Relation struct {
	FacultyToSubjects map[model.FacultyID][]model.SubjectID
	SubjectToFaculty  map[model.SubjectID][]model.FacultyID
}

// Build matches each faculty's EligibleSubjectRefs against the subject
// master list case-insensitively, and returns both the forward and
// inverted relations in deterministic (sorted) order.
func Build(faculty []model.Faculty, subjects []model.Subject) Relation {
	canonical := make(map[string]model.SubjectID, len(subjects))
	for _, s := range subjects {
		canonical[strings.ToLower(string(s.ID))] = s.ID
	}

	forward := make(map[model.FacultyID][]model.SubjectID, len(faculty))
	inverse := make(map[model.SubjectID][]model.FacultyID)

	for _, f := range faculty {
		seen := make(map[model.SubjectID]bool)
		for _, ref := range f.EligibleSubjectRefs {
			canon, ok := canonical[strings.ToLower(ref)]
			if !ok || seen[canon] {
				continue
			}
			seen[canon] = true
			forward[f.ID] = append(forward[f.ID], canon)
			inverse[canon] = append(inverse[canon], f.ID)
		}
		sort.Slice(forward[f.ID], func(i, j int) bool { return forward[f.ID][i] < forward[f.ID][j] })
	}

	for subj := range inverse {
		sort.Slice(inverse[subj], func(i, j int) bool { return inverse[subj][i] < inverse[subj][j] })
	}

	return Relation{FacultyToSubjects: forward, SubjectToFaculty: inverse}
}

// EligibleFacultyFor returns the faculty IDs eligible to teach subject,
// in deterministic order, or nil if none are eligible.
func (r Relation) EligibleFacultyFor(subject model.SubjectID) []model.FacultyID {
	return r.SubjectToFaculty[subject]
}
