// Package modelbuilder materializes decision variables, occupancy
// variables, elective master variables, hard constraints, soft penalty
// constraints, and the objective. It is the core of this
// system: everything upstream exists to feed it typed, normalized
// inputs; everything downstream exists to read chosen assignment keys
// back out of the solver.
package modelbuilder

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/roommap"
	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
)

// Input is everything the builder needs, already produced by the
// upstream pipeline stages: a normalized section list (real sections
// first, then virtual, each in deterministic order), the faculty chosen
// per (section, subject) by the workload balancer, the required period
// count per subject, the room mapping, and the lab room's global
// simultaneous-session ceiling.
type Input struct {
	Grid             model.Grid
	Sections         []model.Section
	FacultyBySS      map[model.SectionSubjectKey]model.FacultyID
	PeriodsBySubject map[model.SubjectID]int
	RoomAssignment   roommap.Mapping
	LabRoomCapacity  int
}

// Output is the full set of variable stores the builder populated, plus
// the violation booleans whose sum is the objective.
type Output struct {
	AssignmentVars  map[model.AssignmentKey]solveengine.VarHandle
	SectionOcc      map[model.SectionOccupancyKey]solveengine.VarHandle
	FacultyOcc      map[model.FacultyOccupancyKey]solveengine.VarHandle
	RoomOcc         map[model.RoomOccupancyKey]solveengine.VarHandle
	ElectiveMasters map[model.ElectiveMasterKey]solveengine.VarHandle
	Violations      []solveengine.VarHandle
}

type electiveGroupKey struct {
	Semester string
	Group    string
}

// Build walks the section/subject/slot space exactly once, in the
// deterministic order required for reproducible builds, and populates
// m with every variable and constraint the model needs.
func Build(m solveengine.Model, in Input) Output {
	out := Output{
		AssignmentVars:  make(map[model.AssignmentKey]solveengine.VarHandle),
		SectionOcc:      make(map[model.SectionOccupancyKey]solveengine.VarHandle),
		FacultyOcc:      make(map[model.FacultyOccupancyKey]solveengine.VarHandle),
		RoomOcc:         make(map[model.RoomOccupancyKey]solveengine.VarHandle),
		ElectiveMasters: make(map[model.ElectiveMasterKey]solveengine.VarHandle),
	}

	sectionCover := make(map[model.SectionOccupancyKey][]solveengine.VarHandle)
	facultyCover := make(map[model.FacultyOccupancyKey][]solveengine.VarHandle)
	roomCover := make(map[model.RoomOccupancyKey][]solveengine.VarHandle)
	labCover := make(map[model.Slot][]solveengine.VarHandle)

	buildAssignmentVars(m, in, out, sectionCover, facultyCover, roomCover, labCover)
	buildOccupancy(m, in.Grid, in.Sections, in.RoomAssignment, out, sectionCover, facultyCover, roomCover)
	buildSubjectTotals(m, in, out)
	buildElectiveSync(m, in, out)
	buildLabCapacity(m, in, labCover)
	buildSoftSpread(m, in, &out)
	buildSoftConsecutiveCap(m, in, &out)

	m.SetObjectiveMinimize(out.Violations)
	return out
}

// buildAssignmentVars creates one 0/1 assignment variable for every
// (section, subject) with an assigned faculty, for every slot a block
// of that subject's length fits into, in section -> subject -> slot
// lexicographic order, for reproducible builds.
func buildAssignmentVars(
	m solveengine.Model,
	in Input,
	out Output,
	sectionCover map[model.SectionOccupancyKey][]solveengine.VarHandle,
	facultyCover map[model.FacultyOccupancyKey][]solveengine.VarHandle,
	roomCover map[model.RoomOccupancyKey][]solveengine.VarHandle,
	labCover map[model.Slot][]solveengine.VarHandle,
) {
	for _, sec := range in.Sections {
		for _, subj := range sec.Subjects {
			required := in.PeriodsBySubject[subj.ID]
			if required == 0 {
				continue
			}
			ssKey := model.SectionSubjectKey{Section: sec.ID, Subject: subj.ID}
			faculty, ok := in.FacultyBySS[ssKey]
			if !ok {
				log.Warn().Str("pair", ssKey.String()).Msg("modelbuilder: no faculty assigned, skipping pair")
				continue
			}

			length := subj.BlockLength()
			room, hasRoom := in.RoomAssignment[sec.ID]

			for w := 0; w < in.Grid.Weeks; w++ {
				for d := 0; d < in.Grid.DaysPerWeek; d++ {
					for p := 0; p+length <= in.Grid.PeriodsPerDay; p++ {
						slot := model.Slot{Week: w, Day: d, Period: p}
						key := model.AssignmentKey{Section: sec.ID, Subject: subj.ID, Slot: slot}
						v := m.NewBoolVar("asn:" + key.String())
						out.AssignmentVars[key] = v

						for _, covered := range slot.Covers(length) {
							secKey := model.SectionOccupancyKey{Section: sec.ID, Slot: covered}
							sectionCover[secKey] = append(sectionCover[secKey], v)

							facKey := model.FacultyOccupancyKey{Faculty: faculty, Slot: covered}
							facultyCover[facKey] = append(facultyCover[facKey], v)

							if hasRoom {
								roomKey := model.RoomOccupancyKey{Room: room, Slot: covered}
								roomCover[roomKey] = append(roomCover[roomKey], v)
							}
							if subj.IsLab {
								labCover[covered] = append(labCover[covered], v)
							}
						}
					}
				}
			}
		}
	}
}

// reifyOccupancy applies the four-way occupancy pattern: at most one cover
// var active, O forced to 1 when any cover is active, O forced to 0
// when none is, and O fixed to 0 outright when the cover set is empty.
func reifyOccupancy(m solveengine.Model, name string, cover []solveengine.VarHandle) solveengine.VarHandle {
	o := m.NewBoolVar(name)
	if len(cover) == 0 {
		m.AddLinear(solveengine.LinearConstraint{
			Terms: []solveengine.Term{{Var: o, Coeff: 1}},
			Op:    solveengine.OpLE,
			Bound: 0,
		})
		return o
	}

	terms := make([]solveengine.Term, len(cover))
	for i, v := range cover {
		terms[i] = solveengine.Term{Var: v, Coeff: 1}
	}

	m.AddLinear(solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpLE, Bound: 1})

	m.AddReifiedLinear(
		solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpGE, Bound: 1},
		o, false,
	)
	m.AddReifiedLinear(
		solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpLE, Bound: 0},
		o, true,
	)
	return o
}

func buildOccupancy(
	m solveengine.Model,
	grid model.Grid,
	sections []model.Section,
	rooms roommap.Mapping,
	out Output,
	sectionCover map[model.SectionOccupancyKey][]solveengine.VarHandle,
	facultyCover map[model.FacultyOccupancyKey][]solveengine.VarHandle,
	roomCover map[model.RoomOccupancyKey][]solveengine.VarHandle,
) {
	var sectionIDs []model.SectionID
	for _, s := range sections {
		sectionIDs = append(sectionIDs, s.ID)
	}
	for _, secID := range sectionIDs {
		forEachSlot(grid, func(slot model.Slot) {
			key := model.SectionOccupancyKey{Section: secID, Slot: slot}
			cover := sectionCover[key]
			if len(cover) == 0 {
				return
			}
			out.SectionOcc[key] = reifyOccupancy(m, "occ:sec:"+string(secID)+"@"+slot.TimeSlot(), cover)
		})
	}

	faculties := make(map[model.FacultyID]bool)
	for key := range facultyCover {
		faculties[key.Faculty] = true
	}
	var facultyIDs []model.FacultyID
	for f := range faculties {
		facultyIDs = append(facultyIDs, f)
	}
	sort.Slice(facultyIDs, func(i, j int) bool { return facultyIDs[i] < facultyIDs[j] })
	for _, fid := range facultyIDs {
		forEachSlot(grid, func(slot model.Slot) {
			key := model.FacultyOccupancyKey{Faculty: fid, Slot: slot}
			cover := facultyCover[key]
			if len(cover) == 0 {
				return
			}
			out.FacultyOcc[key] = reifyOccupancy(m, "occ:fac:"+string(fid)+"@"+slot.TimeSlot(), cover)
		})
	}

	roomIDs := make(map[model.ClassroomID]bool)
	for _, r := range rooms {
		roomIDs[r] = true
	}
	var sortedRooms []model.ClassroomID
	for r := range roomIDs {
		sortedRooms = append(sortedRooms, r)
	}
	sort.Slice(sortedRooms, func(i, j int) bool { return sortedRooms[i] < sortedRooms[j] })
	for _, rid := range sortedRooms {
		forEachSlot(grid, func(slot model.Slot) {
			key := model.RoomOccupancyKey{Room: rid, Slot: slot}
			cover := roomCover[key]
			if len(cover) == 0 {
				return
			}
			out.RoomOcc[key] = reifyOccupancy(m, "occ:room:"+string(rid)+"@"+slot.TimeSlot(), cover)
		})
	}
}

func forEachSlot(grid model.Grid, fn func(model.Slot)) {
	for w := 0; w < grid.Weeks; w++ {
		for d := 0; d < grid.DaysPerWeek; d++ {
			for p := 0; p < grid.PeriodsPerDay; p++ {
				fn(model.Slot{Week: w, Day: d, Period: p})
			}
		}
	}
}

// buildSubjectTotals applies to non-virtual sections only.
// Virtual sections are deliberately excluded: their totals are enforced
// once per elective option on the master variables instead
// (buildElectiveSync, step 5), never on the per-copy assignment variables.
func buildSubjectTotals(m solveengine.Model, in Input, out Output) {
	for _, sec := range in.Sections {
		if sec.IsVirtual {
			continue
		}
		for _, subj := range sec.Subjects {
			required := in.PeriodsBySubject[subj.ID]
			if required == 0 {
				continue
			}
			length := subj.BlockLength()
			var terms []solveengine.Term
			forEachSlot(in.Grid, func(slot model.Slot) {
				key := model.AssignmentKey{Section: sec.ID, Subject: subj.ID, Slot: slot}
				if v, ok := out.AssignmentVars[key]; ok {
					terms = append(terms, solveengine.Term{Var: v, Coeff: int64(length)})
				}
			})
			if len(terms) == 0 {
				continue
			}
			m.AddLinear(solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpEQ, Bound: int64(required)})
		}
	}
}
