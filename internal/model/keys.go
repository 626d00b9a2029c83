package model

import "fmt"

// AssignmentKey identifies one candidate assignment variable: "does
// (section, subject) start a block at this slot".
type AssignmentKey struct {
	Section SectionID
	Subject SubjectID
	Slot    Slot
}

// String renders the key for logging and test assertions.
func (k AssignmentKey) String() string {
	return fmt.Sprintf("%s/%s@%s", k.Section, k.Subject, k.Slot.TimeSlot())
}

// ElectiveMasterKey identifies one elective master boolean: "does
// subject option σ run for elective group g at this slot".
type ElectiveMasterKey struct {
	Semester      string
	ElectiveGroup string
	Subject       SubjectID
	Slot          Slot
}

func (k ElectiveMasterKey) String() string {
	return fmt.Sprintf("%s/%s/%s@%s", k.Semester, k.ElectiveGroup, k.Subject, k.Slot.TimeSlot())
}

// SectionSubjectKey identifies a (section, subject) pair, the unit the
// Workload Balancer assigns a single faculty to.
type SectionSubjectKey struct {
	Section SectionID
	Subject SubjectID
}

func (k SectionSubjectKey) String() string {
	return fmt.Sprintf("%s/%s", k.Section, k.Subject)
}

// SectionOccupancyKey identifies a (section, slot) occupancy variable.
type SectionOccupancyKey struct {
	Section SectionID
	Slot    Slot
}

// FacultyOccupancyKey identifies a (faculty, slot) occupancy variable.
type FacultyOccupancyKey struct {
	Faculty FacultyID
	Slot    Slot
}

// RoomOccupancyKey identifies a (room, slot) occupancy variable.
type RoomOccupancyKey struct {
	Room ClassroomID
	Slot Slot
}
