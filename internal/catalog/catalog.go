// Package catalog models the read-only roster of offered sections a
// schedule search draws from.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awesome-schedule/plannable/internal/meeting"
)

// SectionType is the kind of meeting a section represents.
type SectionType string

const (
	Lecture           SectionType = "Lecture"
	Laboratory        SectionType = "Laboratory"
	Discussion        SectionType = "Discussion"
	Drill             SectionType = "Drill"
	Seminar           SectionType = "Seminar"
	Studio            SectionType = "Studio"
	Clinical          SectionType = "Clinical"
	Practicum         SectionType = "Practicum"
	Workshop          SectionType = "Workshop"
	IndependentStudy  SectionType = "Independent Study"
)

// Status is a section's enrollment state.
type Status string

const (
	Open     Status = "Open"
	Closed   Status = "Closed"
	WaitList Status = "Wait List"
)

// Section is one offered seat-group within a course and section type.
type Section struct {
	ID           int
	Department   string
	Number       string
	SectionLabel string
	Type         SectionType
	Instructor   []string
	Status       Status
	Meetings     []meeting.MeetingTime
}

// GroupKey names a choice slot: the student selects exactly one Section
// among those sharing a GroupKey.
type GroupKey string

// NewGroupKey builds the canonical lower-case GroupKey for a department,
// course number, and section type.
func NewGroupKey(department, number string, sectionType SectionType) GroupKey {
	return GroupKey(strings.ToLower(department + number + string(sectionType)))
}

// Key returns s's GroupKey.
func (s Section) Key() GroupKey {
	return NewGroupKey(s.Department, s.Number, s.Type)
}

// DuplicateSectionIDError reports a section id seen more than once while
// building a Catalog.
type DuplicateSectionIDError struct {
	ID int
}

func (e *DuplicateSectionIDError) Error() string {
	return fmt.Sprintf("duplicate section id %d", e.ID)
}

// Catalog is an immutable mapping from GroupKey to the ordered sections
// offered under it.
type Catalog struct {
	groups map[GroupKey][]Section
}

// Build constructs a Catalog from a flat list of sections, preserving each
// group's insertion order. Build fails with a *DuplicateSectionIDError, and
// returns no partial catalog, if two sections share an id.
func Build(sections []Section) (*Catalog, error) {
	seen := make(map[int]struct{}, len(sections))
	groups := make(map[GroupKey][]Section)
	for _, s := range sections {
		if _, dup := seen[s.ID]; dup {
			return nil, &DuplicateSectionIDError{ID: s.ID}
		}
		seen[s.ID] = struct{}{}
		key := s.Key()
		groups[key] = append(groups[key], s)
	}
	return &Catalog{groups: groups}, nil
}

// Sections returns the ordered sections offered under key, and whether key
// is present in the catalog at all.
func (c *Catalog) Sections(key GroupKey) ([]Section, bool) {
	sections, ok := c.groups[key]
	return sections, ok
}

// Len reports the number of distinct groups in the catalog.
func (c *Catalog) Len() int {
	return len(c.groups)
}

// All flattens the catalog back into its underlying sections, in group
// order. Used where a flat, serializable view is needed (e.g. caching a
// built catalog, or exporting a calendar for a resolved set of sections).
func (c *Catalog) All() []Section {
	sections := make([]Section, 0, len(c.groups))
	for _, key := range c.Keys() {
		sections = append(sections, c.groups[key]...)
	}
	return sections
}

// Keys returns every GroupKey in the catalog, sorted for deterministic
// listing (e.g. the /groups command and GET /api/groups).
func (c *Catalog) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(c.groups))
	for k := range c.groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
