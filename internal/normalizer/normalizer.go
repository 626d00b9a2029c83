// Package normalizer attaches per-semester subjects to sections and
// synthesizes virtual elective sections from pooled elective
// enrollments.
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/model"
)

// ElectiveEnrollment is one student's elective pick within a semester,
// already aggregated to subject granularity by the loader collaborator.
type ElectiveEnrollment struct {
	Semester        string
	ElectiveGroup   string
	SubjectID       model.SubjectID
	SubjectName     string
	TotalHours      float64
	IsLab           bool
	StudentsEnrolled int
}

type electiveGroupKey struct {
	Semester      string
	ElectiveGroup string
	SubjectID     model.SubjectID
}

// VirtualSectionID formats the load-bearing identifier a virtual
// section is known by everywhere downstream. The second
// "-"-separated token is parsed by a downstream enrichment step as the
// year; callers must not alter this layout independently.
func VirtualSectionID(semester, electiveGroup string, subjectID model.SubjectID) model.SectionID {
	return model.SectionID(fmt.Sprintf("VIRTUAL-%s-%s-%s", semester, electiveGroup, subjectID))
}

// FreePeriods reports, for one real section in one semester, how many
// scheduling periods it has beyond what its attached subjects require.
// It is a supplemental early-warning signal, not used by the model
// builder itself.
type FreePeriods struct {
	Section       model.SectionID
	Semester      string
	RequiredTotal int
	Capacity      int
}

// Remaining returns Capacity - RequiredTotal; negative values mean the
// section is already over-subscribed before scheduling begins.
func (f FreePeriods) Remaining() int {
	return f.Capacity - f.RequiredTotal
}

// Result is the normalizer's output: the full section list (real plus
// synthesized virtual), and the free-periods early-warning report.
type Result struct {
	Sections    []model.Section
	FreeReports []FreePeriods
}

// Normalize attaches subjects already on real sections unchanged, and
// appends one virtual section per (semester, elective_group,
// subject_id) group found in enrollments. Enrollments referencing a
// semester absent from sections are dropped with a warning, not an
// error.
func Normalize(realSections []model.Section, enrollments []ElectiveEnrollment, periodsPerWeekCapacity int) Result {
	validSemesters := make(map[string]bool, len(realSections))
	for _, s := range realSections {
		validSemesters[s.Semester] = true
	}

	groups := make(map[electiveGroupKey][]ElectiveEnrollment)
	var order []electiveGroupKey
	for _, e := range enrollments {
		if !validSemesters[e.Semester] {
			log.Warn().Str("semester", e.Semester).Msg("normalizer: ignoring enrollment for semester absent from section list")
			continue
		}
		key := electiveGroupKey{Semester: e.Semester, ElectiveGroup: e.ElectiveGroup, SubjectID: e.SubjectID}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	// Deterministic emission order: lexicographic by (semester, group, subject).
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}
		if a.ElectiveGroup != b.ElectiveGroup {
			return a.ElectiveGroup < b.ElectiveGroup
		}
		return a.SubjectID < b.SubjectID
	})

	// §5 requires deterministic downstream build order; sort real
	// sections the same way the synthesized virtual ones are ordered
	// below (stable, by semester then elective-group then id) rather
	// than leaving them in whatever order the caller happened to pass.
	sortedReal := append([]model.Section(nil), realSections...)
	sort.SliceStable(sortedReal, func(i, j int) bool {
		a, b := sortedReal[i], sortedReal[j]
		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}
		if a.ElectiveGroup != b.ElectiveGroup {
			return a.ElectiveGroup < b.ElectiveGroup
		}
		return a.ID < b.ID
	})

	out := make([]model.Section, 0, len(realSections)+len(order))
	out = append(out, sortedReal...)

	for _, key := range order {
		members := groups[key]
		totalStudents := 0
		for _, m := range members {
			totalStudents += m.StudentsEnrolled
		}
		first := members[0]
		year := 0
		fmt.Sscanf(strings.SplitN(key.Semester, "-", 2)[0], "%d", &year)

		out = append(out, model.Section{
			ID:            VirtualSectionID(key.Semester, key.ElectiveGroup, key.SubjectID),
			Semester:      key.Semester,
			Year:          year,
			TotalStudents: totalStudents,
			Subjects: []model.Subject{{
				ID:            first.SubjectID,
				Name:          first.SubjectName,
				RequiredHours: first.TotalHours,
				IsLab:         first.IsLab,
			}},
			IsVirtual:     true,
			ElectiveGroup: key.ElectiveGroup,
		})
	}

	log.Info().Int("virtual_sections", len(order)).Msg("normalizer: generated virtual elective sections")

	reports := make([]FreePeriods, 0, len(sortedReal))
	for _, s := range sortedReal {
		required := 0
		for _, subj := range s.Subjects {
			required += subj.RequiredPeriods(1.0)
		}
		reports = append(reports, FreePeriods{
			Section:       s.ID,
			Semester:      s.Semester,
			RequiredTotal: required,
			Capacity:      periodsPerWeekCapacity,
		})
	}

	return Result{Sections: out, FreeReports: reports}
}
