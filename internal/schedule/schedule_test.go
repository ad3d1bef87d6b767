package schedule

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/meeting"
)

func mt(days meeting.Weekday, start, end meeting.MinuteOfDay) meeting.MeetingTime {
	return meeting.MeetingTime{Days: days, Start: start, End: end}
}

func tbaMeeting() meeting.MeetingTime {
	return meeting.MeetingTime{TBA: true}
}

func section(id int, department, number string, sType catalog.SectionType, meetings ...meeting.MeetingTime) catalog.Section {
	return catalog.Section{
		ID: id, Department: department, Number: number, Type: sType,
		Status: catalog.Open, Meetings: meetings,
	}
}

func buildCatalog(t *testing.T, sections []catalog.Section) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build(sections)
	if err != nil {
		t.Fatalf("catalog.Build failed: %v", err)
	}
	return cat
}

// S1 — trivial single group.
func TestFindS1(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 650)),
	})
	got, err := Find(cat, []string{"cs2110lecture"}, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := []Schedule{{1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// S2 — two groups, forced conflict.
func TestFindS2(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 700)),
		section(2, "CS", "2110", catalog.Laboratory, mt(meeting.Monday, 650, 750)),
	})
	got, err := Find(cat, []string{"cs2110lecture", "cs2110laboratory"}, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want no schedules", got)
	}
}

// S3 — two groups, one viable pairing.
func TestFindS3(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 700)),
		section(2, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 800, 900)),
		section(3, "CS", "2110", catalog.Laboratory, mt(meeting.Monday, 650, 750)),
	})
	got, err := Find(cat, []string{"cs2110lecture", "cs2110laboratory"}, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := []Schedule{{2, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// S4 — TBA section filtered.
func TestFindS4(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 700)),
		section(2, "CS", "2110", catalog.Lecture, tbaMeeting()),
		section(3, "CS", "2110", catalog.Laboratory, mt(meeting.Tuesday, 600, 700)),
	})
	got, err := Find(cat, []string{"cs2110lecture", "cs2110laboratory"}, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := []Schedule{{1, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// S5 — filter by forbidden window. The window spans minutes 780-930, which
// covers section 2 (800-900) only; section 1 still conflicts with section 3.
func TestFindS5(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 700)),
		section(2, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 800, 900)),
		section(3, "CS", "2110", catalog.Laboratory, mt(meeting.Monday, 650, 750)),
	})
	forbidden, err := meeting.Parse("Mo 1:00PM-3:30PM")
	if err != nil {
		t.Fatalf("meeting.Parse failed: %v", err)
	}
	got, err := Find(cat, []string{"cs2110lecture", "cs2110laboratory"}, nil, Filters{
		ForbiddenWindows: []meeting.MeetingTime{forbidden},
	}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want no schedules", got)
	}
}

func TestFindStatusAndInstructorFilters(t *testing.T) {
	open := section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 650))
	open.Instructor = []string{"A. Turing"}
	closed := section(2, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 700, 750))
	closed.Status = catalog.Closed
	closed.Instructor = []string{"G. Hopper"}
	cat := buildCatalog(t, []catalog.Section{open, closed})
	keys := []string{"cs2110lecture"}

	got, err := Find(cat, keys, nil, Filters{RequiredStatus: catalog.Open}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if want := []Schedule{{1}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("status filter: got %v, want %v", got, want)
	}

	got, err = Find(cat, keys, nil, Filters{RequiredInstructor: "G. Hopper"}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if want := []Schedule{{2}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("instructor filter: got %v, want %v", got, want)
	}

	// Instructor matching is exact and case-sensitive.
	got, err = Find(cat, keys, nil, Filters{RequiredInstructor: "g. hopper"}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("case-insensitive match should not pass the filter, got %v", got)
	}
}

// S6 — sampler bound.
func TestFindS6(t *testing.T) {
	// Three independent groups of 2, 2, 3 non-conflicting sections (distinct
	// weekdays per group) produce 2*2*3 = 12 schedules.
	cat := buildCatalog(t, []catalog.Section{
		section(1, "A", "1", catalog.Lecture, mt(meeting.Monday, 600, 650)),
		section(2, "A", "1", catalog.Lecture, mt(meeting.Monday, 700, 750)),
		section(3, "B", "1", catalog.Lecture, mt(meeting.Tuesday, 600, 650)),
		section(4, "B", "1", catalog.Lecture, mt(meeting.Tuesday, 700, 750)),
		section(5, "C", "1", catalog.Lecture, mt(meeting.Wednesday, 600, 650)),
		section(6, "C", "1", catalog.Lecture, mt(meeting.Wednesday, 700, 750)),
		section(7, "C", "1", catalog.Lecture, mt(meeting.Wednesday, 800, 850)),
	})
	keys := []string{"a1lecture", "b1lecture", "c1lecture"}

	all, err := Find(cat, keys, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(all) != 12 {
		t.Fatalf("expected 12 total schedules, got %d", len(all))
	}

	max := 5
	seed := int64(42)
	sampled, err := Find(cat, keys, &max, Filters{}, &seed)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(sampled) != 5 {
		t.Fatalf("expected 5 sampled schedules, got %d", len(sampled))
	}
	seen := make(map[string]bool)
	for _, s := range sampled {
		k := scheduleKey(s)
		if seen[k] {
			t.Fatalf("sampled schedule %v is not distinct", s)
		}
		seen[k] = true
		assertSound(t, cat, keys, s)
	}
}

func TestFindDeterminism(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 700)),
		section(2, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 800, 900)),
		section(3, "CS", "2110", catalog.Laboratory, mt(meeting.Monday, 650, 750)),
	})
	keys := []string{"cs2110lecture", "cs2110laboratory"}

	first, err := Find(cat, keys, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	second, err := Find(cat, keys, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Find is not deterministic: %v != %v", first, second)
	}
}

func TestFindContextCancelled(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 650)),
		section(2, "CS", "2110", catalog.Laboratory, mt(meeting.Tuesday, 600, 650)),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := FindContext(ctx, cat, []string{"cs2110lecture", "cs2110laboratory"}, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("FindContext failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected a cancelled search to return nothing, got %v", got)
	}
}

func TestFindUnknownGroup(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 650)),
	})
	_, err := Find(cat, []string{"cs9999lecture"}, nil, Filters{}, nil)
	if err == nil {
		t.Fatalf("expected UnknownGroupError")
	}
	if _, ok := err.(*UnknownGroupError); !ok {
		t.Fatalf("expected *UnknownGroupError, got %T", err)
	}
}

func TestFindInvalidArguments(t *testing.T) {
	cat := buildCatalog(t, []catalog.Section{
		section(1, "CS", "2110", catalog.Lecture, mt(meeting.Monday, 600, 650)),
	})
	if _, err := Find(cat, nil, nil, Filters{}, nil); err == nil {
		t.Fatalf("expected error for empty group keys")
	}
	negative := -1
	if _, err := Find(cat, []string{"cs2110lecture"}, &negative, Filters{}, nil); err == nil {
		t.Fatalf("expected error for negative max results")
	}
}

// Enumeration completeness: for small inputs, Find's output equals a
// brute-force Cartesian product filtered by the same conflict predicate.
func TestFindCompletenessAgainstBruteForce(t *testing.T) {
	groupA := []catalog.Section{
		section(1, "A", "1", catalog.Lecture, mt(meeting.Monday, 600, 650)),
		section(2, "A", "1", catalog.Lecture, mt(meeting.Monday, 630, 680)),
	}
	groupB := []catalog.Section{
		section(3, "B", "1", catalog.Lecture, mt(meeting.Monday, 640, 700)),
		section(4, "B", "1", catalog.Lecture, mt(meeting.Tuesday, 600, 700)),
	}
	sections := append(append([]catalog.Section{}, groupA...), groupB...)
	cat := buildCatalog(t, sections)

	got, err := Find(cat, []string{"a1lecture", "b1lecture"}, nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	var brute []Schedule
	for _, a := range groupA {
		for _, b := range groupB {
			if !meeting.Conflicts(a.Meetings, b.Meetings[0]) {
				brute = append(brute, Schedule{a.ID, b.ID})
			}
		}
	}

	gotSet := toSet(got)
	bruteSet := toSet(brute)
	if !reflect.DeepEqual(gotSet, bruteSet) {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(strings.Join(gotSet, "\n")),
			B:        difflib.SplitLines(strings.Join(bruteSet, "\n")),
			FromFile: "Find()",
			ToFile:   "brute force",
			Context:  3,
		})
		t.Fatalf("Find() set differs from brute force set:\n%s", diff)
	}
}

func toSet(schedules []Schedule) []string {
	keys := make([]string, len(schedules))
	for i, s := range schedules {
		keys[i] = scheduleKey(s)
	}
	sort.Strings(keys)
	return keys
}

func scheduleKey(s Schedule) string {
	key := ""
	for _, id := range s {
		key += string(rune('A' + id))
	}
	return key
}

func assertSound(t *testing.T, cat *catalog.Catalog, keys []string, s Schedule) {
	t.Helper()
	if len(s) != len(keys) {
		t.Fatalf("schedule %v has wrong arity for keys %v", s, keys)
	}
	var all []meeting.MeetingTime
	for i, key := range keys {
		sections, _ := cat.Sections(catalog.GroupKey(key))
		var found *catalog.Section
		for j := range sections {
			if sections[j].ID == s[i] {
				found = &sections[j]
				break
			}
		}
		if found == nil {
			t.Fatalf("schedule references id %d not present in group %q", s[i], key)
		}
		for _, m := range found.Meetings {
			if meeting.Conflicts(all, m) {
				t.Fatalf("schedule %v has a conflict at group %q", s, key)
			}
			all = append(all, m)
		}
	}
}
