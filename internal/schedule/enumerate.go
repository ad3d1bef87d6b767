package schedule

import (
	"sort"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/meeting"
)

// group is one internally-ordered candidate list plus the original index
// the caller supplied it at, so results can be reported back in the
// caller's order after the heuristic sort.
type group struct {
	sections    []catalog.Section
	callerIndex int
}

// sortGroupsBySize returns groups ordered ascending by candidate count,
// preserving the caller's relative order among ties (stable sort).
func sortGroupsBySize(groups []group) []group {
	sorted := make([]group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].sections) < len(sorted[j].sections)
	})
	return sorted
}

// enumerate runs the iterative depth-first backtracking search described by
// the enumerator contract: groups must already be filtered and ordered
// (smallest candidate list first). It calls emit for every sound, complete
// assignment in deterministic order. emit returning false stops the search
// early. cancelled, if non-nil, is consulted between group advances; when
// it trips the search stops, keeping whatever emit has already received.
func enumerate(groups []group, cancelled func() bool, emit func(chosen []catalog.Section) bool) {
	n := len(groups)
	if n == 0 {
		emit(nil)
		return
	}
	for _, g := range groups {
		if len(g.sections) == 0 {
			return
		}
	}

	cursor := make([]int, n)
	chosen := make([]catalog.Section, 0, n)
	meetingCounts := make([]int, 0, n) // meetings pushed per chosen section, for retract
	var meetings []meeting.MeetingTime

	i, j := 0, 0
	for {
		if i == n {
			if !emit(append([]catalog.Section(nil), chosen...)) {
				return
			}
			i--
			j = cursor[i]
			chosen = chosen[:i]
			popped := meetingCounts[len(meetingCounts)-1]
			meetingCounts = meetingCounts[:len(meetingCounts)-1]
			meetings = meetings[:len(meetings)-popped]
			continue
		}

		if j >= len(groups[i].sections) {
			i--
			if i < 0 {
				return
			}
			chosen = chosen[:i]
			popped := meetingCounts[len(meetingCounts)-1]
			meetingCounts = meetingCounts[:len(meetingCounts)-1]
			meetings = meetings[:len(meetings)-popped]
			j = cursor[i]
			for k := i + 1; k < n; k++ {
				cursor[k] = 0
			}
			continue
		}

		candidate := groups[i].sections[j]
		candidateMeetings := effectiveMeetings(candidate)
		if conflictsAny(meetings, candidateMeetings) {
			j++
			continue
		}

		if cancelled != nil && cancelled() {
			return
		}
		meetings = append(meetings, candidateMeetings...)
		meetingCounts = append(meetingCounts, len(candidateMeetings))
		cursor[i] = j + 1
		chosen = append(chosen, candidate)
		i++
		j = 0
	}
}

func conflictsAny(existing []meeting.MeetingTime, candidates []meeting.MeetingTime) bool {
	for _, c := range candidates {
		if meeting.Conflicts(existing, c) {
			return true
		}
	}
	return false
}
