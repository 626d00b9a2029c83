// Package roommap assigns each section a classroom: first-fit by
// capacity for real sections, then round-robin reuse of
// already-assigned rooms (spilling to unused rooms) for virtual
// elective sections.
package roommap

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/udp-timetabling/scheduler-core/internal/model"
)

// Mapping is section ID -> assigned classroom ID. Sections with no
// eligible room available are simply absent from the map.
type Mapping map[model.SectionID]model.ClassroomID

// Assign computes the room mapping for sections, given the classroom
// pool. Real sections are processed in input order (first-fit,
// ascending capacity); virtual sections are then grouped by
// (semester, elective_group) and assigned rooms already used by real
// sections of the same semester, round-robin, spilling to whatever
// eligible rooms remain unused.
func Assign(sections []model.Section, classrooms []model.Classroom) Mapping {
	eligible := make([]model.Classroom, 0, len(classrooms))
	for _, c := range classrooms {
		if c.Eligible() {
			eligible = append(eligible, c)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Capacity < eligible[j].Capacity })

	mapping := make(Mapping, len(sections))
	used := make(map[model.ClassroomID]bool)

	var real, virtual []model.Section
	for _, s := range sections {
		if s.IsVirtual {
			virtual = append(virtual, s)
		} else {
			real = append(real, s)
		}
	}

	for _, s := range real {
		for _, c := range eligible {
			if used[c.ID] {
				continue
			}
			if c.Capacity >= s.TotalStudents {
				mapping[s.ID] = c.ID
				used[c.ID] = true
				log.Info().Str("section", string(s.ID)).Str("room", string(c.ID)).Msg("roommap: assigned real section")
				break
			}
		}
	}

	semesterRooms := make(map[string][]model.ClassroomID)
	for _, s := range real {
		if room, ok := mapping[s.ID]; ok {
			semesterRooms[s.Semester] = append(semesterRooms[s.Semester], room)
		}
	}

	var remaining []model.ClassroomID
	for _, c := range eligible {
		if !used[c.ID] {
			remaining = append(remaining, c.ID)
		}
	}

	type groupKey struct {
		Semester string
		Group    string
	}
	groups := make(map[groupKey][]model.Section)
	var groupOrder []groupKey
	for _, s := range virtual {
		key := groupKey{Semester: s.Semester, Group: s.ElectiveGroup}
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], s)
	}
	sort.Slice(groupOrder, func(i, j int) bool {
		if groupOrder[i].Semester != groupOrder[j].Semester {
			return groupOrder[i].Semester < groupOrder[j].Semester
		}
		return groupOrder[i].Group < groupOrder[j].Group
	})

	for _, key := range groupOrder {
		available := append([]model.ClassroomID(nil), semesterRooms[key.Semester]...)
		for _, vs := range groups[key] {
			var room model.ClassroomID
			switch {
			case len(available) > 0:
				room, available = available[0], available[1:]
			case len(remaining) > 0:
				room, remaining = remaining[0], remaining[1:]
			default:
				log.Warn().Str("section", string(vs.ID)).Msg("roommap: no eligible classroom left for virtual section")
				continue
			}
			mapping[vs.ID] = room
			log.Info().Str("section", string(vs.ID)).Str("room", string(room)).Msg("roommap: assigned virtual section")
		}
	}

	return mapping
}
