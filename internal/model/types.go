// Package model holds the immutable data types the scheduling pipeline is
// built from: subjects, sections, faculty, classrooms, and the calendar
// grid they are scheduled onto.
package model

// SubjectID identifies a Subject. Matching across faculty eligibility is
// case-insensitive (see eligibility.Build); SubjectID itself preserves the
// canonical casing from the subject master record.
type SubjectID string

// SectionID identifies a Section, real or virtual. Virtual sections carry
// the load-bearing format VIRTUAL-{semester}-{elective_group}-{subject_id}.
type SectionID string

// FacultyID identifies a Faculty member.
type FacultyID string

// ClassroomID identifies a Classroom.
type ClassroomID string

// RoomType distinguishes the classroom kinds eligible for scheduling.
type RoomType string

const (
	RoomTypeClassroom  RoomType = "classroom"
	RoomTypeConference RoomType = "conference"
	RoomTypeLaboratory RoomType = "laboratory"
)

// Eligible reports whether rooms of this type may be assigned to a section
// at all — only classroom and conference rooms are eligible for scheduling.
func (t RoomType) Eligible() bool {
	return t == RoomTypeClassroom || t == RoomTypeConference
}
