package modelbuilder

import (
	"sort"

	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
)

// addViolation materializes one soft-constraint violation boolean: the
// normal-case constraint is reified active when v=0, the violated-case
// constraint reified active when v=1. v is appended to out's
// objective terms.
func addViolation(m solveengine.Model, out *Output, name string, normal, violated solveengine.LinearConstraint) {
	v := m.NewBoolVar(name)
	m.AddReifiedLinear(normal, v, true)
	m.AddReifiedLinear(violated, v, false)
	out.Violations = append(out.Violations, v)
}

// buildSoftSpread implements S-A: a non-virtual section's theory
// subject should not run twice in the same day.
func buildSoftSpread(m solveengine.Model, in Input, out *Output) {
	for _, sec := range in.Sections {
		for _, subj := range sec.Subjects {
			if subj.IsLab {
				continue
			}
			for w := 0; w < in.Grid.Weeks; w++ {
				for d := 0; d < in.Grid.DaysPerWeek; d++ {
					var terms []solveengine.Term
					for p := 0; p < in.Grid.PeriodsPerDay; p++ {
						key := model.AssignmentKey{Section: sec.ID, Subject: subj.ID, Slot: model.Slot{Week: w, Day: d, Period: p}}
						if v, ok := out.AssignmentVars[key]; ok {
							terms = append(terms, solveengine.Term{Var: v, Coeff: 1})
						}
					}
					if len(terms) < 2 {
						continue
					}
					addViolation(
						m, out,
						"soft:spread:"+string(sec.ID)+"/"+string(subj.ID)+(model.Slot{Week: w, Day: d}).TimeSlot(),
						solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpLE, Bound: 1},
						solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpGE, Bound: 2},
					)
				}
			}
		}
	}
}

// buildSoftConsecutiveCap implements S-B: a faculty should not teach 3
// or more theory starts within any 3-consecutive-period window on one
// day.
func buildSoftConsecutiveCap(m solveengine.Model, in Input, out *Output) {
	type facultySlot struct {
		Faculty model.FacultyID
		Week    int
		Day     int
		Period  int
	}
	starts := make(map[facultySlot][]solveengine.VarHandle)

	for _, sec := range in.Sections {
		for _, subj := range sec.Subjects {
			if subj.IsLab {
				continue
			}
			faculty, ok := in.FacultyBySS[model.SectionSubjectKey{Section: sec.ID, Subject: subj.ID}]
			if !ok {
				continue
			}
			for w := 0; w < in.Grid.Weeks; w++ {
				for d := 0; d < in.Grid.DaysPerWeek; d++ {
					for p := 0; p < in.Grid.PeriodsPerDay; p++ {
						key := model.AssignmentKey{Section: sec.ID, Subject: subj.ID, Slot: model.Slot{Week: w, Day: d, Period: p}}
						if v, ok := out.AssignmentVars[key]; ok {
							fs := facultySlot{faculty, w, d, p}
							starts[fs] = append(starts[fs], v)
						}
					}
				}
			}
		}
	}

	facultySet := make(map[model.FacultyID]bool)
	for fs := range starts {
		facultySet[fs.Faculty] = true
	}
	var faculties []model.FacultyID
	for f := range facultySet {
		faculties = append(faculties, f)
	}
	sort.Slice(faculties, func(i, j int) bool { return faculties[i] < faculties[j] })

	for _, fid := range faculties {
		for w := 0; w < in.Grid.Weeks; w++ {
			for d := 0; d < in.Grid.DaysPerWeek; d++ {
				for p := 0; p+3 <= in.Grid.PeriodsPerDay; p++ {
					var terms []solveengine.Term
					for offset := 0; offset < 3; offset++ {
						for _, v := range starts[facultySlot{fid, w, d, p + offset}] {
							terms = append(terms, solveengine.Term{Var: v, Coeff: 1})
						}
					}
					if len(terms) < 3 {
						continue
					}
					addViolation(
						m, out,
						"soft:cap:"+string(fid)+(model.Slot{Week: w, Day: d, Period: p}).TimeSlot(),
						solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpLE, Bound: 2},
						solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpGE, Bound: 3},
					)
				}
			}
		}
	}
}
