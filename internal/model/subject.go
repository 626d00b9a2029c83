package model

import "math"

// Subject is a unit of instruction a section must receive a required
// number of periods of per semester.
type Subject struct {
	ID            SubjectID
	Name          string
	RequiredHours float64
	IsLab         bool
}

// BlockLength returns the number of consecutive periods one scheduled
// session of this subject occupies: 2 for labs, 1 for theory.
func (s Subject) BlockLength() int {
	if s.IsLab {
		return 2
	}
	return 1
}

// RequiredPeriods converts RequiredHours into whole periods given the
// length of one period in hours. A subject whose hours do not divide
// evenly into periods rounds up; diagnostics.Run flags odd lab period
// counts separately (OddLabParity).
func (s Subject) RequiredPeriods(periodLengthHours float64) int {
	if periodLengthHours <= 0 {
		return 0
	}
	return int(math.Ceil(s.RequiredHours / periodLengthHours))
}

// RequiredLabSessions returns ceil(R/2), the number of 2-period blocks
// needed to cover a lab subject's required periods.
func (s Subject) RequiredLabSessions(requiredPeriods int) int {
	return (requiredPeriods + 1) / 2
}
