package task

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 30, 14, 30, 0, 0, time.Local)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestAddEmptyList(t *testing.T) {
	var l List
	l = l.Add("x", testNow)

	if len(l) != 1 {
		t.Fatalf("len: got %d, want 1", len(l))
	}
	got := l[0]
	if got.ID != 1 {
		t.Errorf("ID: got %d, want 1", got.ID)
	}
	if got.Status != StatusTodo {
		t.Errorf("Status: got %s, want TODO", got.Status)
	}
	if !got.Visible || got.Pinned {
		t.Errorf("flags: got visible=%v pinned=%v, want true false", got.Visible, got.Pinned)
	}
	if got.Scheduled != nil || got.Deadline != nil || got.DoneDate != nil {
		t.Error("dates: want all unset on a fresh task")
	}
	if !got.Created.Equal(testNow) {
		t.Errorf("Created: got %v, want %v", got.Created, testNow)
	}
}

func TestIDsDenseAfterAddAndPrune(t *testing.T) {
	var l List
	for _, desc := range []string{"a", "b", "c", "d"} {
		l = l.Add(desc, testNow)
	}
	assertDenseIDs(t, l)

	l.ToggleDone([]int{2, 3}, testNow)
	l = l.Prune()
	assertDenseIDs(t, l)
	if len(l) != 4 {
		t.Fatalf("prune removed rows: got %d, want 4", len(l))
	}
}

func assertDenseIDs(t *testing.T, l List) {
	t.Helper()
	seen := make(map[int]bool, len(l))
	for _, tk := range l {
		seen[tk.ID] = true
	}
	for id := 1; id <= len(l); id++ {
		if !seen[id] {
			t.Errorf("ids not dense: missing %d in %d tasks", id, len(l))
		}
	}
}

func TestReindexOrder(t *testing.T) {
	l := List{
		{ID: 7, Status: StatusDone, Desc: "hidden done", Created: testNow, Visible: false},
		{ID: 9, Status: StatusTodo, Desc: "plain", Created: testNow, Visible: true},
		{ID: 3, Status: StatusTodo, Desc: "pinned", Created: testNow, Visible: true, Pinned: true},
	}
	got := Reindex(l)

	want := []struct {
		desc string
		id   int
	}{
		{"pinned", 1},
		{"plain", 2},
		{"hidden done", 3},
	}
	for i, w := range want {
		if got[i].Desc != w.desc || got[i].ID != w.id {
			t.Errorf("row %d: got (%q, %d), want (%q, %d)", i, got[i].Desc, got[i].ID, w.desc, w.id)
		}
	}
}

func TestReindexDoneBeforeTodo(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "open", Created: testNow, Visible: true},
		{ID: 2, Status: StatusDone, Desc: "closed", Created: testNow, Visible: true},
	}
	got := Reindex(l)
	if got[0].Desc != "closed" {
		t.Errorf("first row: got %q, want %q (DONE ranks above TODO)", got[0].Desc, "closed")
	}
}

func TestReindexDatesNullsLast(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "no dates", Created: testNow, Visible: true},
		{ID: 2, Status: StatusTodo, Desc: "later", Created: testNow, Visible: true, Scheduled: date(2026, 9, 10)},
		{ID: 3, Status: StatusTodo, Desc: "sooner", Created: testNow, Visible: true, Scheduled: date(2026, 9, 1)},
	}
	got := Reindex(l)
	order := []string{"sooner", "later", "no dates"}
	for i, desc := range order {
		if got[i].Desc != desc {
			t.Errorf("row %d: got %q, want %q", i, got[i].Desc, desc)
		}
	}
}

func TestReindexDoesNotMutateInput(t *testing.T) {
	l := List{
		{ID: 5, Status: StatusTodo, Desc: "a", Created: testNow, Visible: true},
	}
	Reindex(l)
	if l[0].ID != 5 {
		t.Errorf("input mutated: ID got %d, want 5", l[0].ID)
	}
}

func TestTogglePinTwiceRestores(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "a", Created: testNow, Visible: true},
		{ID: 2, Status: StatusTodo, Desc: "b", Created: testNow, Visible: true, Pinned: true},
	}
	l.TogglePin([]int{1, 2})
	if !l[0].Pinned || l[1].Pinned {
		t.Fatalf("after first toggle: got (%v, %v), want (true, false)", l[0].Pinned, l[1].Pinned)
	}
	l.TogglePin([]int{1, 2})
	if l[0].Pinned || !l[1].Pinned {
		t.Errorf("after second toggle: got (%v, %v), want (false, true)", l[0].Pinned, l[1].Pinned)
	}
}

func TestTogglePinUnknownIDNoop(t *testing.T) {
	l := List{{ID: 1, Status: StatusTodo, Desc: "a", Created: testNow, Visible: true}}
	l.TogglePin([]int{99})
	if l[0].Pinned {
		t.Error("unknown id flipped a pin")
	}
}

func TestToggleDoneRoundTrip(t *testing.T) {
	l := List{{ID: 1, Status: StatusTodo, Desc: "a", Created: testNow, Visible: true}}

	l.ToggleDone([]int{1}, testNow)
	if l[0].Status != StatusDone {
		t.Fatalf("status: got %s, want DONE", l[0].Status)
	}
	if l[0].DoneDate == nil {
		t.Fatal("done date not set")
	}
	if want := Midnight(testNow); !l[0].DoneDate.Equal(want) {
		t.Errorf("done date: got %v, want %v", l[0].DoneDate, want)
	}

	l.ToggleDone([]int{1}, testNow)
	if l[0].Status != StatusTodo {
		t.Errorf("status: got %s, want TODO", l[0].Status)
	}
	if l[0].DoneDate != nil {
		t.Errorf("done date: got %v, want unset", l[0].DoneDate)
	}
	if !l[0].Visible {
		t.Error("task not visible after round trip")
	}
}

func TestToggleDoneForcesVisibility(t *testing.T) {
	yesterday := Midnight(testNow.AddDate(0, 0, -1))
	l := List{
		{ID: 1, Status: StatusDone, Desc: "hidden", Created: testNow, Visible: false, DoneDate: &yesterday},
		{ID: 2, Status: StatusDone, Desc: "other hidden", Created: testNow, Visible: false, DoneDate: &yesterday},
	}
	l.ToggleDone([]int{1}, testNow)

	if !l[0].Visible {
		t.Error("DONE->TODO task must become visible even after a prune")
	}
	if l[1].Visible {
		t.Error("unrelated hidden task became visible")
	}
	if l[1].Status != StatusDone || l[1].DoneDate == nil {
		t.Error("unrelated task mutated")
	}
}

func TestDoneDateConsistency(t *testing.T) {
	var l List
	for _, desc := range []string{"a", "b", "c"} {
		l = l.Add(desc, testNow)
	}
	l.ToggleDone([]int{1, 3}, testNow)
	l.ToggleDone([]int{3}, testNow)
	l = l.Prune()

	for _, tk := range l {
		hasDate := tk.DoneDate != nil
		isDone := tk.Status == StatusDone
		if hasDate != isDone {
			t.Errorf("task %q: done_date set=%v but status=%s", tk.Desc, hasDate, tk.Status)
		}
		if tk.Status == StatusTodo && !tk.Visible {
			t.Errorf("task %q: TODO but hidden", tk.Desc)
		}
	}
}

func TestPruneHidesDoneOnly(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "open", Created: testNow, Visible: true},
		{ID: 2, Status: StatusDone, Desc: "closed", Created: testNow, Visible: true},
	}
	l = l.Prune()

	for _, tk := range l {
		switch tk.Status {
		case StatusTodo:
			if !tk.Visible {
				t.Errorf("task %q hidden by prune", tk.Desc)
			}
		case StatusDone:
			if tk.Visible {
				t.Errorf("task %q still visible after prune", tk.Desc)
			}
		}
	}
	assertDenseIDs(t, l)
}

func TestMatch(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "Buy milk", Created: testNow, Visible: true},
		{ID: 2, Status: StatusTodo, Desc: "Call bank", Created: testNow, Visible: true},
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"milk", []string{"Buy milk"}},
		{"MILK", []string{"Buy milk"}},
		{"zzz", nil},
		{"b", []string{"Buy milk", "Call bank"}},
	}
	for _, tt := range tests {
		re, err := CompilePattern(tt.pattern)
		if err != nil {
			t.Fatalf("CompilePattern(%q): %v", tt.pattern, err)
		}
		got := l.Match(re)
		if len(got) != len(tt.want) {
			t.Errorf("Match(%q): got %d rows, want %d", tt.pattern, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Desc != tt.want[i] {
				t.Errorf("Match(%q) row %d: got %q, want %q", tt.pattern, i, got[i].Desc, tt.want[i])
			}
		}
	}
}

func TestMatchSeesDates(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "a", Created: testNow, Visible: true, Scheduled: date(2026, 9, 1)},
		{ID: 2, Status: StatusTodo, Desc: "b", Created: testNow, Visible: true},
	}
	re, err := CompilePattern("2026-09-01")
	if err != nil {
		t.Fatal(err)
	}
	got := l.Match(re)
	if len(got) != 1 || got[0].Desc != "a" {
		t.Errorf("date match: got %d rows, want the scheduled task only", len(got))
	}
}

func TestSearchTextSkipsUnsetDates(t *testing.T) {
	tk := Task{ID: 1, Status: StatusTodo, Desc: "a", Created: testNow, Visible: true}
	text := SearchText(tk)
	want := "1TODOa" + testNow.Format(DateTimeLayout) + "truefalse"
	if text != want {
		t.Errorf("SearchText: got %q, want %q", text, want)
	}
}

func TestVisible(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "shown", Created: testNow, Visible: true},
		{ID: 2, Status: StatusDone, Desc: "hidden", Created: testNow, Visible: false},
	}
	got := l.Visible()
	if len(got) != 1 || got[0].Desc != "shown" {
		t.Errorf("Visible: got %d rows, want only the visible one", len(got))
	}
}

func TestSortForDisplay(t *testing.T) {
	l := List{
		{ID: 1, Status: StatusTodo, Desc: "todo late", Created: testNow, Visible: true, Scheduled: date(2026, 9, 20)},
		{ID: 2, Status: StatusDone, Desc: "done", Created: testNow, Visible: true},
		{ID: 3, Status: StatusTodo, Desc: "pinned", Created: testNow, Visible: true, Pinned: true},
		{ID: 4, Status: StatusTodo, Desc: "todo soon", Created: testNow, Visible: true, Scheduled: date(2026, 9, 2)},
	}
	SortForDisplay(l)

	order := []string{"pinned", "done", "todo soon", "todo late"}
	for i, desc := range order {
		if l[i].Desc != desc {
			t.Errorf("row %d: got %q, want %q", i, l[i].Desc, desc)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-09-15"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"2026-9-15", "15.09.2026", "soon", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): want error", bad)
		}
	}
}
