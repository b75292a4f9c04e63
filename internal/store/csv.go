// Package store persists the task collection as a flat CSV file.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nullus/todo/internal/task"
)

// Column order of the backing file.
var header = []string{
	"id", "status", "desc", "scheduled", "deadline",
	"created", "is_visible", "is_pin", "done_date",
}

// Timestamps written before microsecond precision was recorded.
const legacyDateTimeLayout = "2006-01-02T15:04:05"

// CSV is a task.Repository backed by a single CSV file. A missing
// file reads as an empty collection; saving replaces the file via a
// temp-file rename so a crashed save never leaves a partial file
// behind.
type CSV struct {
	Path string
}

// NewCSV returns a repository over the file at path.
func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

// Load reads the full collection. A missing or empty file is an empty
// collection, not an error; a malformed row is.
func (c *CSV) Load() (task.List, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open tasks file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read tasks file %s: %w", c.Path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, fmt.Errorf("read tasks file %s: %w", c.Path, err)
	}

	l := make(task.List, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("read tasks file %s: row %d: %w", c.Path, i+2, err)
		}
		l = append(l, t)
	}
	return l, nil
}

// Save overwrites the backing file with the full collection.
func (c *CSV) Save(l task.List) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create tasks dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".task-*.csv")
	if err != nil {
		return fmt.Errorf("create temp tasks file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks file: %w", err)
	}
	for i := range l {
		if err := w.Write(encodeRow(l[i])); err != nil {
			tmp.Close()
			return fmt.Errorf("write tasks file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replace tasks file: %w", err)
	}
	return nil
}

func checkHeader(rec []string) error {
	for i, name := range header {
		if rec[i] != name {
			return fmt.Errorf("unexpected column %d: got %q, want %q", i+1, rec[i], name)
		}
	}
	return nil
}

func decodeRow(rec []string) (task.Task, error) {
	var t task.Task
	id, err := strconv.Atoi(rec[0])
	if err != nil {
		return t, fmt.Errorf("id: %w", err)
	}
	t.ID = id

	switch task.Status(rec[1]) {
	case task.StatusTodo, task.StatusDone:
		t.Status = task.Status(rec[1])
	default:
		return t, fmt.Errorf("status: invalid value %q", rec[1])
	}

	t.Desc = rec[2]

	if t.Scheduled, err = decodeDate(rec[3]); err != nil {
		return t, fmt.Errorf("scheduled: %w", err)
	}
	if t.Deadline, err = decodeDate(rec[4]); err != nil {
		return t, fmt.Errorf("deadline: %w", err)
	}
	if t.Created, err = decodeDateTime(rec[5]); err != nil {
		return t, fmt.Errorf("created: %w", err)
	}
	if t.Visible, err = strconv.ParseBool(rec[6]); err != nil {
		return t, fmt.Errorf("is_visible: %w", err)
	}
	if t.Pinned, err = strconv.ParseBool(rec[7]); err != nil {
		return t, fmt.Errorf("is_pin: %w", err)
	}
	if t.DoneDate, err = decodeDate(rec[8]); err != nil {
		return t, fmt.Errorf("done_date: %w", err)
	}
	return t, nil
}

func encodeRow(t task.Task) []string {
	return []string{
		strconv.Itoa(t.ID),
		string(t.Status),
		t.Desc,
		encodeDate(t.Scheduled),
		encodeDate(t.Deadline),
		t.Created.Format(task.DateTimeLayout),
		strconv.FormatBool(t.Visible),
		strconv.FormatBool(t.Pinned),
		encodeDate(t.DoneDate),
	}
}

func decodeDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(task.DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func encodeDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(task.DateLayout)
}

func decodeDateTime(s string) (time.Time, error) {
	d, err := time.ParseInLocation(task.DateTimeLayout, s, time.Local)
	if err == nil {
		return d, nil
	}
	return time.ParseInLocation(legacyDateTimeLayout, s, time.Local)
}
