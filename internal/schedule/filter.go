package schedule

import (
	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/meeting"
)

// Filters holds the pre-search constraints applied to every candidate
// section before enumeration begins. All fields are optional.
type Filters struct {
	// ForbiddenWindows rejects a section if any of its meetings conflicts
	// (per meeting.Conflicts) with any of these windows.
	ForbiddenWindows []meeting.MeetingTime

	// RequiredStatus, if non-empty, requires an exact status match.
	RequiredStatus catalog.Status

	// RequiredInstructor, if non-empty, requires a case-sensitive exact
	// match against one of the section's instructors.
	RequiredInstructor string
}

func (f Filters) apply(sections []catalog.Section) []catalog.Section {
	if len(f.ForbiddenWindows) == 0 && f.RequiredStatus == "" && f.RequiredInstructor == "" {
		return sections
	}
	filtered := make([]catalog.Section, 0, len(sections))
	for _, s := range sections {
		if f.RequiredStatus != "" && s.Status != f.RequiredStatus {
			continue
		}
		if f.RequiredInstructor != "" && !hasInstructor(s.Instructor, f.RequiredInstructor) {
			continue
		}
		if f.rejectedByWindow(s) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

func (f Filters) rejectedByWindow(s catalog.Section) bool {
	if len(f.ForbiddenWindows) == 0 {
		return false
	}
	meetings := effectiveMeetings(s)
	for _, window := range f.ForbiddenWindows {
		for _, m := range meetings {
			if meeting.Conflicts([]meeting.MeetingTime{window}, m) {
				return true
			}
		}
	}
	return false
}

func hasInstructor(instructors []string, want string) bool {
	for _, name := range instructors {
		if name == want {
			return true
		}
	}
	return false
}

// effectiveMeetings returns s's meetings, treating an empty list as a
// single TBA meeting.
func effectiveMeetings(s catalog.Section) []meeting.MeetingTime {
	if len(s.Meetings) == 0 {
		return []meeting.MeetingTime{{TBA: true}}
	}
	return s.Meetings
}
