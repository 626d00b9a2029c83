// Package diagnostics runs the pre-solve capacity checks: quick,
// non-mutating estimates of whether the model being built even has a
// chance of being feasible, long before the solver is invoked.
package diagnostics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/normalizer"
	"github.com/udp-timetabling/scheduler-core/internal/workload"
)

// Offender is one row of a diagnostic report: something that looks
// infeasible at a glance.
type Offender struct {
	Section  model.SectionID
	Subject  model.SubjectID
	Faculty  model.FacultyID
	Required int
	Capacity int
	Detail   string
}

// Report bundles all checks run over one build.
type Report struct {
	SubjectCapacity      []Offender
	LabSessionCandidates []Offender
	FacultyGrossDemand   []Offender
	ElectiveHeadroom     []Offender
	OddLabParity         []Offender
}

var (
	offenderGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "scheduler",
		Subsystem: "diagnostics",
		Name:      "offenders_total",
		Help:      "Count of offending rows per diagnostic check.",
	}, []string{"check"})
)

func init() {
	prometheus.MustRegister(offenderGauge)
}

// candidateStartCount returns how many (week, day, period) starts of a
// block of the given length fit in the grid.
func candidateStartCount(g model.Grid, length int) int {
	startsPerDay := g.PeriodsPerDay - length + 1
	if startsPerDay < 0 {
		startsPerDay = 0
	}
	return g.Weeks * g.DaysPerWeek * startsPerDay
}

// Run executes all checks. sections must already include virtual
// elective sections (i.e. be the normalizer's output); facultyBySS maps
// each (section, subject) pair to the faculty the workload balancer
// assigned it, periodsBySubject gives the per-section period
// requirement already converted from hours, and freeReports is the
// normalizer's per-real-section free-period accounting (§4.2), the
// input the elective-headroom check below is built to consume.
func Run(
	grid model.Grid,
	sections []model.Section,
	facultyBySS map[model.SectionSubjectKey]model.FacultyID,
	periodsBySubject map[model.SubjectID]int,
	metrics map[model.FacultyID]*workload.Metrics,
	freeReports []normalizer.FreePeriods,
) Report {
	var report Report

	for _, sec := range sections {
		if sec.IsVirtual {
			continue
		}
		for _, subj := range sec.Subjects {
			required := periodsBySubject[subj.ID]
			if required == 0 {
				continue
			}
			capacity := candidateStartCount(grid, subj.BlockLength()) * subj.BlockLength()
			if required > capacity {
				report.SubjectCapacity = append(report.SubjectCapacity, Offender{
					Section: sec.ID, Subject: subj.ID, Required: required, Capacity: capacity,
					Detail: "required periods exceed candidate-start capacity",
				})
			}

			if subj.IsLab {
				// §4.4.5 / §9: an odd lab required-period count makes the
				// subject-total equality (each start contributes 2) and
				// the session-count constraint disagree. Reported here as
				// an offender; the builder omits the redundant
				// session-count constraint entirely and still receives
				// the subject unchanged.
				if required%2 != 0 {
					report.OddLabParity = append(report.OddLabParity, Offender{
						Section: sec.ID, Subject: subj.ID, Required: required,
						Detail: "lab subject has an odd required-period count",
					})
				}

				sessionsRequired := subj.RequiredLabSessions(required)
				starts := candidateStartCount(grid, 2)
				if sessionsRequired > starts {
					report.LabSessionCandidates = append(report.LabSessionCandidates, Offender{
						Section: sec.ID, Subject: subj.ID, Required: sessionsRequired, Capacity: starts,
						Detail: "lab sessions required exceed available block starts",
					})
				}
			}
		}
	}

	grossDemand := make(map[model.FacultyID]int)
	grossSupply := make(map[model.FacultyID]int)
	for key, fid := range facultyBySS {
		required := periodsBySubject[key.Subject]
		grossDemand[fid] += required

		length := 1
		for _, sec := range sections {
			if sec.ID != key.Section {
				continue
			}
			if subj, ok := sec.SubjectByID(key.Subject); ok {
				length = subj.BlockLength()
			}
		}
		grossSupply[fid] += candidateStartCount(grid, length) * length
	}
	for fid, demand := range grossDemand {
		supply := grossSupply[fid]
		if demand > supply {
			report.FacultyGrossDemand = append(report.FacultyGrossDemand, Offender{
				Faculty: fid, Required: demand, Capacity: supply,
				Detail: "faculty gross demand exceeds candidate-start supply",
			})
		}
	}

	// Elective headroom (§4.2/§4.7 supplement, grounded on
	// precompute.py:validate_section_periods_vs_subjects): a
	// (semester, elective_group)'s max-required periods across its
	// options must fit within that semester's accumulated real-section
	// free periods, since a running elective option blocks every
	// non-virtual section of the semester from anything else (§4.4.4
	// step 4) — the free periods are exactly what's left over for
	// electives to consume.
	semesterFree := make(map[string]int, len(freeReports))
	for _, fr := range freeReports {
		semesterFree[fr.Semester] += fr.Remaining()
	}

	type groupKey struct {
		Semester string
		Group    string
	}
	groupMaxRequired := make(map[groupKey]int)
	for _, sec := range sections {
		if !sec.IsVirtual {
			continue
		}
		key := groupKey{Semester: sec.Semester, Group: sec.ElectiveGroup}
		for _, subj := range sec.Subjects {
			if required := periodsBySubject[subj.ID]; required > groupMaxRequired[key] {
				groupMaxRequired[key] = required
			}
		}
	}

	var groupKeys []groupKey
	for k := range groupMaxRequired {
		groupKeys = append(groupKeys, k)
	}
	sort.Slice(groupKeys, func(i, j int) bool {
		if groupKeys[i].Semester != groupKeys[j].Semester {
			return groupKeys[i].Semester < groupKeys[j].Semester
		}
		return groupKeys[i].Group < groupKeys[j].Group
	})

	for _, key := range groupKeys {
		required := groupMaxRequired[key]
		free := semesterFree[key.Semester]
		if required > free {
			report.ElectiveHeadroom = append(report.ElectiveHeadroom, Offender{
				Detail:   "elective group's max-required periods exceed semester's accumulated free periods: " + key.Semester + "/" + key.Group,
				Required: required,
				Capacity: free,
			})
		}
	}

	offenderGauge.WithLabelValues("subject_capacity").Set(float64(len(report.SubjectCapacity)))
	offenderGauge.WithLabelValues("lab_session_candidates").Set(float64(len(report.LabSessionCandidates)))
	offenderGauge.WithLabelValues("faculty_gross_demand").Set(float64(len(report.FacultyGrossDemand)))
	offenderGauge.WithLabelValues("elective_headroom").Set(float64(len(report.ElectiveHeadroom)))
	offenderGauge.WithLabelValues("odd_lab_parity").Set(float64(len(report.OddLabParity)))

	log.Info().
		Int("subject_capacity_offenders", len(report.SubjectCapacity)).
		Int("lab_session_offenders", len(report.LabSessionCandidates)).
		Int("faculty_demand_offenders", len(report.FacultyGrossDemand)).
		Int("elective_headroom_offenders", len(report.ElectiveHeadroom)).
		Int("odd_lab_parity_offenders", len(report.OddLabParity)).
		Msg("diagnostics: pre-solve capacity checks complete")

	return report
}
