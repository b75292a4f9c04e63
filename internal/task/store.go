package task

import (
	"fmt"
	"regexp"
	"time"
)

// Repository loads and saves the ordered task collection. Load returns
// an empty list when no backing content exists; Save overwrites the
// backing content so that a subsequent Load never sees a partial write.
type Repository interface {
	Load() (List, error)
	Save(List) error
}

// Store owns the task collection behind a Repository. Every operation
// is a full load, mutate in memory, save round trip; nothing is
// persisted when the load or the mutation fails. Concurrent
// invocations against the same backing store race (last save wins).
type Store struct {
	repo Repository
	now  func() time.Time
}

// NewStore returns a Store over repo using the local clock.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// Add creates a new TODO task from desc and renumbers the collection.
func (s *Store) Add(desc string) error {
	l, err := s.repo.Load()
	if err != nil {
		return err
	}
	return s.repo.Save(l.Add(desc, s.now()))
}

// TogglePin flips the pin flag for every matched id. Unknown ids are
// silently ignored. Ids keep their values.
func (s *Store) TogglePin(ids []int) error {
	l, err := s.repo.Load()
	if err != nil {
		return err
	}
	l.TogglePin(ids)
	return s.repo.Save(l)
}

// ToggleDone flips done state for every matched id; see List.ToggleDone.
// Unknown ids are silently ignored. Ids keep their values.
func (s *Store) ToggleDone(ids []int) error {
	l, err := s.repo.Load()
	if err != nil {
		return err
	}
	l.ToggleDone(ids, s.now())
	return s.repo.Save(l)
}

// Schedule sets the scheduled date for every matched id.
func (s *Store) Schedule(date time.Time, ids []int) error {
	l, err := s.repo.Load()
	if err != nil {
		return err
	}
	l.Schedule(date, ids)
	return s.repo.Save(l)
}

// SetDeadline sets the deadline date for every matched id.
func (s *Store) SetDeadline(date time.Time, ids []int) error {
	l, err := s.repo.Load()
	if err != nil {
		return err
	}
	l.SetDeadline(date, ids)
	return s.repo.Save(l)
}

// Prune hides every DONE task and renumbers the collection.
func (s *Store) Prune() error {
	l, err := s.repo.Load()
	if err != nil {
		return err
	}
	return s.repo.Save(l.Prune())
}

// Listing returns the visible tasks, filtered by pattern when it is
// non-empty. The pattern is a case-insensitive regular expression
// matched against each row's concatenated field text.
func (s *Store) Listing(pattern string) (List, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = CompilePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
	}
	l, err := s.repo.Load()
	if err != nil {
		return nil, err
	}
	l = l.Visible()
	if re != nil {
		l = l.Match(re)
	}
	return l, nil
}

// Dump returns the full stored collection, hidden rows included.
func (s *Store) Dump() (List, error) {
	return s.repo.Load()
}
