package catalog

import (
	"errors"
	"testing"

	"github.com/awesome-schedule/plannable/internal/meeting"
)

func TestNewGroupKey(t *testing.T) {
	tests := []struct {
		department string
		number     string
		sType      SectionType
		want       GroupKey
	}{
		{"CS", "2110", Lecture, "cs2110lecture"},
		{"cs", "2110", Laboratory, "cs2110laboratory"},
		{"MATH", "1554", Discussion, "math1554discussion"},
	}
	for _, tc := range tests {
		if got := NewGroupKey(tc.department, tc.number, tc.sType); got != tc.want {
			t.Errorf("NewGroupKey(%q, %q, %q) = %q, want %q", tc.department, tc.number, tc.sType, got, tc.want)
		}
	}
}

func TestBuild(t *testing.T) {
	mo := meeting.MeetingTime{Days: meeting.Monday, Start: 600, End: 650}

	sections := []Section{
		{ID: 1, Department: "CS", Number: "2110", Type: Lecture, Meetings: []meeting.MeetingTime{mo}},
		{ID: 2, Department: "CS", Number: "2110", Type: Lecture, Meetings: []meeting.MeetingTime{mo}},
		{ID: 3, Department: "CS", Number: "2110", Type: Laboratory, Meetings: []meeting.MeetingTime{mo}},
	}

	cat, err := Build(sections)
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}

	lectures, ok := cat.Sections(NewGroupKey("CS", "2110", Lecture))
	if !ok || len(lectures) != 2 {
		t.Fatalf("expected 2 lecture sections, got %d (ok=%v)", len(lectures), ok)
	}
	if lectures[0].ID != 1 || lectures[1].ID != 2 {
		t.Fatalf("expected insertion order preserved, got ids %d, %d", lectures[0].ID, lectures[1].ID)
	}

	if _, ok := cat.Sections(NewGroupKey("CS", "9999", Lecture)); ok {
		t.Fatalf("expected unknown group to report ok=false")
	}
}

func TestKeysAndAll(t *testing.T) {
	mo := meeting.MeetingTime{Days: meeting.Monday, Start: 600, End: 650}
	sections := []Section{
		{ID: 1, Department: "MATH", Number: "1554", Type: Lecture, Meetings: []meeting.MeetingTime{mo}},
		{ID: 2, Department: "CS", Number: "2110", Type: Lecture, Meetings: []meeting.MeetingTime{mo}},
	}
	cat, err := Build(sections)
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}

	keys := cat.Keys()
	if len(keys) != 2 || keys[0] != "cs2110lecture" || keys[1] != "math1554lecture" {
		t.Fatalf("expected sorted keys [cs2110lecture math1554lecture], got %v", keys)
	}

	if all := cat.All(); len(all) != 2 {
		t.Fatalf("expected All() to flatten 2 sections, got %d", len(all))
	}
}

func TestBuildDuplicateID(t *testing.T) {
	sections := []Section{
		{ID: 1, Department: "CS", Number: "2110", Type: Lecture},
		{ID: 1, Department: "CS", Number: "2110", Type: Laboratory},
	}
	_, err := Build(sections)
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	var dupErr *DuplicateSectionIDError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected *DuplicateSectionIDError, got %T", err)
	}
	if dupErr.ID != 1 {
		t.Fatalf("expected duplicate id 1, got %d", dupErr.ID)
	}
}
