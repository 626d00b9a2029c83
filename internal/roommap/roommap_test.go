package roommap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/roommap"
)

func TestAssign_RealSectionsFirstFitByCapacity(t *testing.T) {
	classrooms := []model.Classroom{
		{ID: "small", Capacity: 20, Type: model.RoomTypeClassroom},
		{ID: "big", Capacity: 100, Type: model.RoomTypeClassroom},
		{ID: "lab", Capacity: 30, Type: model.RoomTypeLaboratory},
	}
	sections := []model.Section{
		{ID: "sec-1", Semester: "2026-1", TotalStudents: 15},
		{ID: "sec-2", Semester: "2026-1", TotalStudents: 50},
	}

	mapping := roommap.Assign(sections, classrooms)

	assert.Equal(t, model.ClassroomID("small"), mapping["sec-1"])
	assert.Equal(t, model.ClassroomID("big"), mapping["sec-2"])
	assert.NotContains(t, []model.ClassroomID{mapping["sec-1"], mapping["sec-2"]}, model.ClassroomID("lab"))
}

func TestAssign_VirtualSectionsReuseSemesterRoomsRoundRobin(t *testing.T) {
	classrooms := []model.Classroom{
		{ID: "r1", Capacity: 50, Type: model.RoomTypeClassroom},
		{ID: "r2", Capacity: 50, Type: model.RoomTypeClassroom},
		{ID: "r3", Capacity: 50, Type: model.RoomTypeConference},
	}
	sections := []model.Section{
		{ID: "real-1", Semester: "2026-1", TotalStudents: 10},
		{ID: "real-2", Semester: "2026-1", TotalStudents: 10},
		{ID: "VIRTUAL-2026-1-g1-X", Semester: "2026-1", ElectiveGroup: "g1", IsVirtual: true, TotalStudents: 5},
		{ID: "VIRTUAL-2026-1-g1-Y", Semester: "2026-1", ElectiveGroup: "g1", IsVirtual: true, TotalStudents: 5},
		{ID: "VIRTUAL-2026-1-g1-Z", Semester: "2026-1", ElectiveGroup: "g1", IsVirtual: true, TotalStudents: 5},
	}

	mapping := roommap.Assign(sections, classrooms)

	require.Contains(t, mapping, model.SectionID("real-1"))
	require.Contains(t, mapping, model.SectionID("real-2"))
	usedByReal := map[model.ClassroomID]bool{mapping["real-1"]: true, mapping["real-2"]: true}
	assert.True(t, usedByReal[mapping["VIRTUAL-2026-1-g1-X"]])
	assert.True(t, usedByReal[mapping["VIRTUAL-2026-1-g1-Y"]])
	// third virtual section spills to the remaining eligible room
	assert.Equal(t, model.ClassroomID("r3"), mapping["VIRTUAL-2026-1-g1-Z"])
}
