package modelbuilder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/modelbuilder"
	"github.com/udp-timetabling/scheduler-core/internal/roommap"
	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
)

func chosenAssignments(m *solveengine.InMemoryModel, vars map[model.AssignmentKey]solveengine.VarHandle) []model.AssignmentKey {
	var chosen []model.AssignmentKey
	for k, v := range vars {
		if m.Value(v) == 1 {
			chosen = append(chosen, k)
		}
	}
	return chosen
}

// A single section with one theory subject requiring 3 periods/week,
// one faculty, one room, one week of 6 days x 8 periods, should land
// exactly 3 assignment starts, each at a distinct slot.
func TestBuild_TrivialTheoryFit(t *testing.T) {
	in := modelbuilder.Input{
		Grid:     model.Grid{Weeks: 1, DaysPerWeek: 6, PeriodsPerDay: 8},
		Sections: []model.Section{{ID: "s1", Semester: "2026-1", Subjects: []model.Subject{{ID: "CS101", RequiredHours: 3}}}},
		FacultyBySS: map[model.SectionSubjectKey]model.FacultyID{
			{Section: "s1", Subject: "CS101"}: "f1",
		},
		PeriodsBySubject: map[model.SubjectID]int{"CS101": 3},
		RoomAssignment:   roommap.Mapping{"s1": "r1"},
		LabRoomCapacity:  2,
	}

	m := solveengine.NewInMemoryModel()
	out := modelbuilder.Build(m, in)

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 5})
	require.NoError(t, err)
	require.Contains(t, []solveengine.Status{solveengine.StatusOptimal, solveengine.StatusFeasible}, result.Status)

	chosen := chosenAssignments(m, out.AssignmentVars)
	require.Len(t, chosen, 3)

	seenSlots := make(map[model.Slot]bool)
	for _, k := range chosen {
		assert.False(t, seenSlots[k.Slot], "each chosen start lands on a distinct slot")
		seenSlots[k.Slot] = true
		assert.Less(t, k.Slot.Period, 8)
	}

	facOccSet := 0
	for _, v := range out.FacultyOcc {
		if m.Value(v) == 1 {
			facOccSet++
		}
	}
	assert.Equal(t, 3, facOccSet)

	secOccSet := 0
	for _, v := range out.SectionOcc {
		if m.Value(v) == 1 {
			secOccSet++
		}
	}
	assert.Equal(t, 3, secOccSet)
}

// A single section with one lab subject requiring 4 periods, under a
// shared lab room capacity of 1, should land exactly 2 non-overlapping
// 2-period blocks.
func TestBuild_LabBlockFitsUnderSharedCapacity(t *testing.T) {
	in := modelbuilder.Input{
		Grid:     model.Grid{Weeks: 1, DaysPerWeek: 6, PeriodsPerDay: 8},
		Sections: []model.Section{{ID: "s1", Semester: "2026-1", Subjects: []model.Subject{{ID: "Lab1", RequiredHours: 4, IsLab: true}}}},
		FacultyBySS: map[model.SectionSubjectKey]model.FacultyID{
			{Section: "s1", Subject: "Lab1"}: "f1",
		},
		PeriodsBySubject: map[model.SubjectID]int{"Lab1": 4},
		RoomAssignment:   roommap.Mapping{"s1": "r1"},
		LabRoomCapacity:  1,
	}

	m := solveengine.NewInMemoryModel()
	out := modelbuilder.Build(m, in)

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 5})
	require.NoError(t, err)
	require.Contains(t, []solveengine.Status{solveengine.StatusOptimal, solveengine.StatusFeasible}, result.Status)

	chosen := chosenAssignments(m, out.AssignmentVars)
	require.Len(t, chosen, 2)

	coveredSlots := make(map[model.Slot]bool)
	for _, k := range chosen {
		assert.LessOrEqual(t, k.Slot.Period, 6)
		for _, s := range k.Slot.Covers(2) {
			assert.False(t, coveredSlots[s], "no two lab blocks overlap")
			coveredSlots[s] = true
		}
	}
}

// Two real sections in one semester share an elective group with
// options {X, Y}, each requiring 2 periods, with 2 virtual copies per
// option (the general case the master-sync mechanism supports): every
// copy of an option must land on the same slots as its siblings, the
// two options must never overlap, and a running option must block the
// real sections from any other assignment at that slot.
func TestBuild_ElectiveOptionsStaySynchronizedAndMutuallyExclusive(t *testing.T) {
	grid := model.Grid{Weeks: 1, DaysPerWeek: 6, PeriodsPerDay: 8}
	sections := []model.Section{
		{ID: "real-1", Semester: "2026-1", Subjects: []model.Subject{{ID: "CORE1", RequiredHours: 2}}},
		{ID: "real-2", Semester: "2026-1", Subjects: []model.Subject{{ID: "CORE1", RequiredHours: 2}}},
		{ID: "virt-X-1", Semester: "2026-1", ElectiveGroup: "g", IsVirtual: true, Subjects: []model.Subject{{ID: "X", RequiredHours: 2}}},
		{ID: "virt-X-2", Semester: "2026-1", ElectiveGroup: "g", IsVirtual: true, Subjects: []model.Subject{{ID: "X", RequiredHours: 2}}},
		{ID: "virt-Y-1", Semester: "2026-1", ElectiveGroup: "g", IsVirtual: true, Subjects: []model.Subject{{ID: "Y", RequiredHours: 2}}},
		{ID: "virt-Y-2", Semester: "2026-1", ElectiveGroup: "g", IsVirtual: true, Subjects: []model.Subject{{ID: "Y", RequiredHours: 2}}},
	}
	faculty := map[model.SectionSubjectKey]model.FacultyID{
		{Section: "real-1", Subject: "CORE1"}: "f1",
		{Section: "real-2", Subject: "CORE1"}: "f1",
		{Section: "virt-X-1", Subject: "X"}:   "f2",
		{Section: "virt-X-2", Subject: "X"}:   "f4",
		{Section: "virt-Y-1", Subject: "Y"}:   "f3",
		{Section: "virt-Y-2", Subject: "Y"}:   "f5",
	}
	in := modelbuilder.Input{
		Grid:             grid,
		Sections:         sections,
		FacultyBySS:      faculty,
		PeriodsBySubject: map[model.SubjectID]int{"CORE1": 2, "X": 2, "Y": 2},
		RoomAssignment: roommap.Mapping{
			"real-1": "r1", "real-2": "r2", "virt-X-1": "r1", "virt-X-2": "r2", "virt-Y-1": "r1", "virt-Y-2": "r2",
		},
		LabRoomCapacity: 2,
	}

	m := solveengine.NewInMemoryModel()
	out := modelbuilder.Build(m, in)

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 10})
	require.NoError(t, err)
	require.Contains(t, []solveengine.Status{solveengine.StatusOptimal, solveengine.StatusFeasible}, result.Status)

	xSlots := chosenSlotsFor(m, out.AssignmentVars, "virt-X-1", "X")
	x2Slots := chosenSlotsFor(m, out.AssignmentVars, "virt-X-2", "X")
	assert.ElementsMatch(t, xSlots, x2Slots, "both virtual copies of option X share identical chosen slots")

	ySlots := chosenSlotsFor(m, out.AssignmentVars, "virt-Y-1", "Y")
	for _, xs := range xSlots {
		for _, ys := range ySlots {
			assert.NotEqual(t, xs, ys, "X and Y never share a slot")
		}
	}

	for _, xs := range xSlots {
		for _, realSec := range []model.SectionID{"real-1", "real-2"} {
			key := model.AssignmentKey{Section: realSec, Subject: "CORE1", Slot: xs}
			if v, ok := out.AssignmentVars[key]; ok {
				assert.Equal(t, int64(0), m.Value(v), "real sections have no other assignment while an elective option runs")
			}
		}
	}
}

func chosenSlotsFor(m *solveengine.InMemoryModel, vars map[model.AssignmentKey]solveengine.VarHandle, section model.SectionID, subject model.SubjectID) []model.Slot {
	var slots []model.Slot
	for k, v := range vars {
		if k.Section == section && k.Subject == subject && m.Value(v) == 1 {
			slots = append(slots, k.Slot)
		}
	}
	return slots
}

// A single section with one theory subject requiring 2 periods and
// ample slack in the week should have its two periods land on
// different days, keeping the spread-penalty objective at 0.
func TestBuild_SpreadPenaltyZeroWhenSlackAvailable(t *testing.T) {
	in := modelbuilder.Input{
		Grid:     model.Grid{Weeks: 1, DaysPerWeek: 6, PeriodsPerDay: 8},
		Sections: []model.Section{{ID: "s1", Semester: "2026-1", Subjects: []model.Subject{{ID: "CS101", RequiredHours: 2}}}},
		FacultyBySS: map[model.SectionSubjectKey]model.FacultyID{
			{Section: "s1", Subject: "CS101"}: "f1",
		},
		PeriodsBySubject: map[model.SubjectID]int{"CS101": 2},
		RoomAssignment:   roommap.Mapping{"s1": "r1"},
		LabRoomCapacity:  2,
	}

	m := solveengine.NewInMemoryModel()
	modelbuilder.Build(m, in)

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.ObjectiveValue)
}
