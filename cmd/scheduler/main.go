// Command scheduler wires the constraint-model builder pipeline
// end to end: calendar computation, section normalization, room
// mapping, faculty eligibility, workload balancing, model building,
// and pre-solve diagnostics, in that order.
//
// Input file parsing, result post-processing, and the production CP
// solver are external collaborators and are not implemented here;
// this binary wires the in-memory reference solver so the pipeline is
// runnable end to end for demonstration and local testing.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/calendarcalc"
	"github.com/udp-timetabling/scheduler-core/internal/config"
	"github.com/udp-timetabling/scheduler-core/internal/diagnostics"
	"github.com/udp-timetabling/scheduler-core/internal/eligibility"
	"github.com/udp-timetabling/scheduler-core/internal/logging"
	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/modelbuilder"
	"github.com/udp-timetabling/scheduler-core/internal/normalizer"
	"github.com/udp-timetabling/scheduler-core/internal/roommap"
	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
	"github.com/udp-timetabling/scheduler-core/internal/workload"
)

func main() {
	buildID := logging.Setup("info")
	log.Info().Str("build_id", buildID).Msg("scheduler: starting build")

	params, err := config.Load(os.Getenv("SCHEDULER_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler: invalid solver params")
	}

	subjectsMaster, sections, faculty, classrooms, enrollments := sampleInputs()

	log.Info().Msg("scheduler: [1/7] computing calendar")
	cw := calendarcalc.Compute(calendarcalc.Input{
		Start:         time.Now(),
		End:           time.Now().AddDate(0, 4, 0),
		PeriodsPerDay: params.PeriodsPerDay,
		DaysPerWeek:   params.DaysPerWeek,
	})
	grid := calendarcalc.Grid(cw, params.DefaultWeeks)

	log.Info().Msg("scheduler: [2/7] normalizing sections")
	normalized := normalizer.Normalize(sections, enrollments, grid.PeriodsPerDay*grid.DaysPerWeek*grid.Weeks)

	log.Info().Msg("scheduler: [3/7] mapping rooms")
	rooms := roommap.Assign(normalized.Sections, classrooms)

	log.Info().Msg("scheduler: [4/7] building faculty eligibility")
	rel := eligibility.Build(faculty, subjectsMaster)

	periodsBySubject := make(map[model.SubjectID]int, len(subjectsMaster))
	for _, s := range subjectsMaster {
		periodsBySubject[s.ID] = s.RequiredPeriods(1.0)
	}

	log.Info().Msg("scheduler: [5/7] balancing faculty workload")
	balanceResult := workload.Balance(normalized.Sections, rel.SubjectToFaculty, periodsBySubject, grid.TotalSlots())
	facultyBySS := make(map[model.SectionSubjectKey]model.FacultyID, len(balanceResult.Assignments))
	for _, a := range balanceResult.Assignments {
		facultyBySS[a.Key] = a.Faculty
	}

	log.Info().Msg("scheduler: [6/7] building constraint model")
	m := solveengine.NewInMemoryModel()
	out := modelbuilder.Build(m, modelbuilder.Input{
		Grid:             grid,
		Sections:         normalized.Sections,
		FacultyBySS:      facultyBySS,
		PeriodsBySubject: periodsBySubject,
		RoomAssignment:   rooms,
		LabRoomCapacity:  params.LabRoomCapacity,
	})

	log.Info().Msg("scheduler: [7/7] running pre-solve diagnostics")
	report := diagnostics.Run(grid, normalized.Sections, facultyBySS, periodsBySubject, balanceResult.Metrics, normalized.FreeReports)
	if len(report.SubjectCapacity)+len(report.LabSessionCandidates)+len(report.FacultyGrossDemand)+len(report.OddLabParity) > 0 {
		log.Warn().Msg("scheduler: diagnostics surfaced capacity offenders, continuing anyway")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(params.TimeLimitSeconds*float64(time.Second)))
	defer cancel()

	result, err := m.Solve(ctx, solveengine.SolveParams{TimeLimitSeconds: params.TimeLimitSeconds, NumWorkers: params.NumWorkers})
	if err != nil {
		log.Error().Err(err).Msg("scheduler: solve failed")
		return
	}

	log.Info().
		Str("status", result.Status.String()).
		Int64("objective", result.ObjectiveValue).
		Int("assignment_vars", len(out.AssignmentVars)).
		Msg("scheduler: solve complete")
}

// sampleInputs stands in for the loader collaborator (out of
// scope): already-typed records this binary would otherwise receive
// from a parsed input file.
func sampleInputs() ([]model.Subject, []model.Section, []model.Faculty, []model.Classroom, []normalizer.ElectiveEnrollment) {
	subjects := []model.Subject{
		{ID: "CS101", Name: "Intro to Programming", RequiredHours: 3},
		{ID: "LAB101", Name: "Programming Lab", RequiredHours: 4, IsLab: true},
	}
	sections := []model.Section{
		{ID: "aiml-2026-A", Semester: "2026-1", Year: 2026, TotalStudents: 40, Subjects: subjects},
	}
	faculty := []model.Faculty{
		{ID: "f1", Name: "Faculty One", EligibleSubjectRefs: []string{"cs101", "lab101"}},
	}
	classrooms := []model.Classroom{
		{ID: "r1", Capacity: 60, Type: model.RoomTypeClassroom},
	}
	return subjects, sections, faculty, classrooms, nil
}
