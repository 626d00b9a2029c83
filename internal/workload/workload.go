// Package workload implements the tank-filling faculty-to-subject
// assignment heuristic: each (section, subject) pair gets
// exactly one faculty, chosen to keep load spread across smaller-
// capacity faculty before topping up larger ones.
package workload

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/model"
)

// Metrics tracks one faculty's workload state through the balancing
// pass. MaxPossiblePeriods is computed once and frozen; only
// ActualAllocatedPeriods mutates as assignments occur.
type Metrics struct {
	Faculty                model.FacultyID
	MaxPossiblePeriods      int
	ActualAllocatedPeriods  int
	totalPeriods            int
}

// MaxPossibleUtilization is 100 * MaxPossiblePeriods / totalPeriods.
func (m Metrics) MaxPossibleUtilization() float64 {
	if m.totalPeriods <= 0 {
		return 0
	}
	return 100 * float64(m.MaxPossiblePeriods) / float64(m.totalPeriods)
}

// ActualUtilization is 100 * ActualAllocatedPeriods / totalPeriods.
func (m Metrics) ActualUtilization() float64 {
	if m.totalPeriods <= 0 {
		return 0
	}
	return 100 * float64(m.ActualAllocatedPeriods) / float64(m.totalPeriods)
}

// Assignment is the outcome for one (section, subject) pair.
type Assignment struct {
	Key     model.SectionSubjectKey
	Faculty model.FacultyID
}

// Result is the full output of a balancing pass: the chosen
// assignments, in the same deterministic order they were decided, plus
// the final per-faculty metrics for diagnostics.
type Result struct {
	Assignments []Assignment
	Metrics     map[model.FacultyID]*Metrics
}

// Balance assigns exactly one faculty to each (section, subject) pair,
// in section order then subject order as attached to the section
// eligibleFaculty maps a subject to the faculty
// IDs allowed to teach it, already in deterministic order.
// periodsBySubject gives the per-section period requirement for a
// subject; totalPeriods is the denominator for utilization ratios.
func Balance(
	sections []model.Section,
	eligibleFaculty map[model.SubjectID][]model.FacultyID,
	periodsBySubject map[model.SubjectID]int,
	totalPeriods int,
) Result {
	metrics := initMetrics(sections, eligibleFaculty, periodsBySubject, totalPeriods)

	var assignments []Assignment
	for _, sec := range sections {
		for _, subj := range sec.Subjects {
			periods := periodsBySubject[subj.ID]
			candidates := eligibleFaculty[subj.ID]
			if len(candidates) == 0 {
				log.Warn().
					Str("section", string(sec.ID)).
					Str("subject", string(subj.ID)).
					Msg("workload: no eligible faculty, skipping pair")
				continue
			}

			sorted := make([]model.FacultyID, len(candidates))
			copy(sorted, candidates)
			sort.SliceStable(sorted, func(i, j int) bool {
				return metrics[sorted[i]].MaxPossibleUtilization() < metrics[sorted[j]].MaxPossibleUtilization()
			})

			chosen := sorted[0]
			for _, fid := range sorted {
				if metrics[fid].ActualUtilization() < 50.0 {
					chosen = fid
					break
				}
			}

			metrics[chosen].ActualAllocatedPeriods += periods
			assignments = append(assignments, Assignment{
				Key:     model.SectionSubjectKey{Section: sec.ID, Subject: subj.ID},
				Faculty: chosen,
			})
		}
	}

	return Result{Assignments: assignments, Metrics: metrics}
}

func initMetrics(
	sections []model.Section,
	eligibleFaculty map[model.SubjectID][]model.FacultyID,
	periodsBySubject map[model.SubjectID]int,
	totalPeriods int,
) map[model.FacultyID]*Metrics {
	sectionCount := make(map[model.SubjectID]int)
	for _, sec := range sections {
		for _, subj := range sec.Subjects {
			sectionCount[subj.ID]++
		}
	}

	subjectsByFaculty := make(map[model.FacultyID][]model.SubjectID)
	for subj, faculties := range eligibleFaculty {
		for _, f := range faculties {
			subjectsByFaculty[f] = append(subjectsByFaculty[f], subj)
		}
	}

	metrics := make(map[model.FacultyID]*Metrics, len(subjectsByFaculty))
	for f, subjects := range subjectsByFaculty {
		m := &Metrics{Faculty: f, totalPeriods: totalPeriods}
		for _, subj := range subjects {
			m.MaxPossiblePeriods += periodsBySubject[subj] * sectionCount[subj]
		}
		metrics[f] = m
	}
	return metrics
}
