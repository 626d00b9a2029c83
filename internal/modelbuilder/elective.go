package modelbuilder

import (
	"sort"

	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
)

// buildElectiveSync implements the elective master
// synchronization sub-problem: one shared boolean per (group, option,
// slot), every virtual copy of that option wired to it by equality, at
// most one option active per slot within a group, a same-semester
// non-virtual section blocked from anything else while an option runs,
// and subject totals applied once per option instead of once per copy.
func buildElectiveSync(m solveengine.Model, in Input, out Output) {
	groups := make(map[electiveGroupKey][]model.Section)
	var groupOrder []electiveGroupKey
	for _, sec := range in.Sections {
		if !sec.IsVirtual {
			continue
		}
		key := electiveGroupKey{Semester: sec.Semester, Group: sec.ElectiveGroup}
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], sec)
	}
	sort.Slice(groupOrder, func(i, j int) bool {
		if groupOrder[i].Semester != groupOrder[j].Semester {
			return groupOrder[i].Semester < groupOrder[j].Semester
		}
		return groupOrder[i].Group < groupOrder[j].Group
	})

	nonVirtualBySemester := make(map[string][]model.Section)
	for _, sec := range in.Sections {
		if !sec.IsVirtual {
			nonVirtualBySemester[sec.Semester] = append(nonVirtualBySemester[sec.Semester], sec)
		}
	}

	for _, gk := range groupOrder {
		members := groups[gk]

		optionsByID := make(map[model.SubjectID][]model.Section)
		var options []model.SubjectID
		for _, vs := range members {
			subj := vs.Subjects[0]
			if _, seen := optionsByID[subj.ID]; !seen {
				options = append(options, subj.ID)
			}
			optionsByID[subj.ID] = append(optionsByID[subj.ID], vs)
		}
		sort.Slice(options, func(i, j int) bool { return options[i] < options[j] })

		// Step 1 + 2: master per option per slot, equated to every
		// virtual copy's assignment variable at that slot.
		mastersBySlot := make(map[model.Slot][]solveengine.VarHandle)
		for _, option := range options {
			copies := optionsByID[option]
			length := copies[0].Subjects[0].BlockLength()

			forEachSlot(in.Grid, func(slot model.Slot) {
				if slot.Period+length > in.Grid.PeriodsPerDay {
					return
				}
				key := model.ElectiveMasterKey{Semester: gk.Semester, ElectiveGroup: gk.Group, Subject: option, Slot: slot}
				master := m.NewBoolVar("master:" + key.String())
				out.ElectiveMasters[key] = master
				mastersBySlot[slot] = append(mastersBySlot[slot], master)

				for _, vs := range copies {
					akey := model.AssignmentKey{Section: vs.ID, Subject: option, Slot: slot}
					if av, ok := out.AssignmentVars[akey]; ok {
						m.AddEquality(av, master)
					}
				}
			})

			// Step 5: subject totals applied once per option, on the
			// master variables, never on the per-copy assignment vars.
			required := in.PeriodsBySubject[option]
			if required > 0 {
				var terms []solveengine.Term
				forEachSlot(in.Grid, func(slot model.Slot) {
					key := model.ElectiveMasterKey{Semester: gk.Semester, ElectiveGroup: gk.Group, Subject: option, Slot: slot}
					if master, ok := out.ElectiveMasters[key]; ok {
						terms = append(terms, solveengine.Term{Var: master, Coeff: int64(length)})
					}
				})
				if len(terms) > 0 {
					m.AddLinear(solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpEQ, Bound: int64(required)})
				}
			}
		}

		// Steps 3 and 4 both iterate slots; walk the grid in
		// lexicographic order rather than the masters-by-slot map so
		// constraint creation order stays deterministic.
		forEachSlot(in.Grid, func(slot model.Slot) {
			masters := mastersBySlot[slot]
			if len(masters) == 0 {
				return
			}

			// Step 3: at most one option active per slot, group-wide.
			if len(masters) >= 2 {
				terms := make([]solveengine.Term, len(masters))
				for i, v := range masters {
					terms[i] = solveengine.Term{Var: v, Coeff: 1}
				}
				m.AddLinear(solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpLE, Bound: 1})
			}

			// Step 4: a running elective blocks every non-virtual
			// section in the same semester from any other assignment
			// at that slot.
			for _, master := range masters {
				for _, nv := range nonVirtualBySemester[gk.Semester] {
					for _, subj := range nv.Subjects {
						akey := model.AssignmentKey{Section: nv.ID, Subject: subj.ID, Slot: slot}
						av, ok := out.AssignmentVars[akey]
						if !ok {
							continue
						}
						m.AddLinear(solveengine.LinearConstraint{
							Terms: []solveengine.Term{{Var: av, Coeff: 1}, {Var: master, Coeff: 1}},
							Op:    solveengine.OpLE,
							Bound: 1,
						})
					}
				}
			}
		})
	}
}
