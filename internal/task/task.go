// Package task implements the task records, their mutations, and the
// ordering policy used for display and renumbering.
package task

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Storage string forms for the date-valued and timestamp-valued fields.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05.000000"
)

// Status represents a task status.
type Status string

const (
	StatusTodo Status = "TODO"
	StatusDone Status = "DONE"
)

// rank orders statuses: DONE ranks above TODO, so a descending status
// sort puts DONE rows first.
func (s Status) rank() int {
	if s == StatusDone {
		return 1
	}
	return 0
}

// Task is a single task record. Scheduled, Deadline, and DoneDate are
// calendar dates and nil when unset. Created is assigned once, at add
// time, in local time.
type Task struct {
	ID        int
	Status    Status
	Desc      string
	Scheduled *time.Time
	Deadline  *time.Time
	Created   time.Time
	Visible   bool
	Pinned    bool
	DoneDate  *time.Time
}

// List is the ordered task collection as loaded from the backing store.
type List []Task

// New builds a fresh TODO task with the given id and description.
func New(id int, desc string, now time.Time) Task {
	return Task{
		ID:      id,
		Status:  StatusTodo,
		Desc:    desc,
		Created: now,
		Visible: true,
	}
}

// NextID returns max(existing ids)+1, or 1 for an empty list.
func (l List) NextID() int {
	max := 0
	for i := range l {
		if l[i].ID > max {
			max = l[i].ID
		}
	}
	return max + 1
}

// Add appends a new TODO task and renumbers the whole list. The
// returned list is sorted, so the new task's id may differ from the
// one it was assigned on append.
func (l List) Add(desc string, now time.Time) List {
	l = append(l, New(l.NextID(), desc, now))
	return Reindex(l)
}

// TogglePin flips the pin flag on every task whose id is in ids.
// Unknown ids are ignored. Ids are not reassigned.
func (l List) TogglePin(ids []int) {
	match := idSet(ids)
	for i := range l {
		if match[l[i].ID] {
			l[i].Pinned = !l[i].Pinned
		}
	}
}

// ToggleDone flips done state on every task whose id is in ids: a DONE
// task goes back to TODO with its done date cleared, a TODO task
// becomes DONE with its done date set to today. A task flipped back to
// TODO is forced visible, even if a prior prune had hidden it.
// Unknown ids are ignored. Ids are not reassigned.
func (l List) ToggleDone(ids []int, today time.Time) {
	match := idSet(ids)
	day := Midnight(today)
	for i := range l {
		if !match[l[i].ID] {
			continue
		}
		if l[i].Status == StatusDone {
			l[i].Status = StatusTodo
			l[i].DoneDate = nil
			l[i].Visible = true
		} else {
			l[i].Status = StatusDone
			l[i].DoneDate = &day
		}
	}
}

// Schedule sets the scheduled date on every task whose id is in ids.
func (l List) Schedule(date time.Time, ids []int) {
	match := idSet(ids)
	day := Midnight(date)
	for i := range l {
		if match[l[i].ID] {
			l[i].Scheduled = &day
		}
	}
}

// SetDeadline sets the deadline date on every task whose id is in ids.
func (l List) SetDeadline(date time.Time, ids []int) {
	match := idSet(ids)
	day := Midnight(date)
	for i := range l {
		if match[l[i].ID] {
			l[i].Deadline = &day
		}
	}
}

// Prune hides every DONE task and renumbers the whole list. Rows are
// never removed; hidden tasks stay in the backing store.
func (l List) Prune() List {
	for i := range l {
		if l[i].Status == StatusDone {
			l[i].Visible = false
		}
	}
	return Reindex(l)
}

// Reindex sorts the entire list, hidden rows included, by visibility
// (visible first), pin (pinned first), status (DONE first), scheduled
// date (ascending, unset last), and deadline (ascending, unset last),
// then reassigns ids 1..N in that order. Renumbering is destructive:
// ids taken from a listing printed before a reindex-triggering
// operation (add, prune) no longer name the same tasks.
func Reindex(l List) List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Visible != out[j].Visible {
			return out[i].Visible
		}
		return displayLess(out[i], out[j])
	})
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}

// SortForDisplay orders tasks the way list prints them: pinned first,
// then DONE before TODO, then by scheduled and deadline dates
// ascending with unset dates last. The sort is stable.
func SortForDisplay(l List) {
	sort.SliceStable(l, func(i, j int) bool {
		return displayLess(l[i], l[j])
	})
}

func displayLess(a, b Task) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	if a.Status != b.Status {
		return a.Status.rank() > b.Status.rank()
	}
	if c := compareDates(a.Scheduled, b.Scheduled); c != 0 {
		return c < 0
	}
	return compareDates(a.Deadline, b.Deadline) < 0
}

// compareDates orders ascending with nil sorted last.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	default:
		return 0
	}
}

// Visible returns the tasks eligible for normal listing.
func (l List) Visible() List {
	var out List
	for i := range l {
		if l[i].Visible {
			out = append(out, l[i])
		}
	}
	return out
}

// Match keeps the tasks whose search text matches re. The search text
// is the concatenation of every field's string form, unset fields
// excluded, lowercased; see SearchText.
func (l List) Match(re *regexp.Regexp) List {
	var out List
	for i := range l {
		if re.MatchString(strings.ToLower(SearchText(l[i]))) {
			out = append(out, l[i])
		}
	}
	return out
}

// AnyPinned reports whether any task in the list is pinned.
func (l List) AnyPinned() bool {
	for i := range l {
		if l[i].Pinned {
			return true
		}
	}
	return false
}

// AnyScheduled reports whether any task in the list has a scheduled date.
func (l List) AnyScheduled() bool {
	for i := range l {
		if l[i].Scheduled != nil {
			return true
		}
	}
	return false
}

// AnyDeadline reports whether any task in the list has a deadline.
func (l List) AnyDeadline() bool {
	for i := range l {
		if l[i].Deadline != nil {
			return true
		}
	}
	return false
}

// SearchText concatenates the string forms of every field, in column
// order, skipping unset dates.
func SearchText(t Task) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(t.ID))
	b.WriteString(string(t.Status))
	b.WriteString(t.Desc)
	if t.Scheduled != nil {
		b.WriteString(t.Scheduled.Format(DateLayout))
	}
	if t.Deadline != nil {
		b.WriteString(t.Deadline.Format(DateLayout))
	}
	b.WriteString(t.Created.Format(DateTimeLayout))
	b.WriteString(strconv.FormatBool(t.Visible))
	b.WriteString(strconv.FormatBool(t.Pinned))
	if t.DoneDate != nil {
		b.WriteString(t.DoneDate.Format(DateLayout))
	}
	return b.String()
}

// CompilePattern builds the case-insensitive filter expression used by
// list. A plain word acts as a substring filter.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(strings.ToLower(pattern))
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Midnight truncates a timestamp to its calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func idSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
