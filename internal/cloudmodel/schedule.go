package cloudmodel

import (
	"sort"
	"time"
)

// Entry pairs a timestamp with an Action. Seq breaks ties between entries
// sharing a timestamp, preserving insertion order (§3: "stable w.r.t.
// insertion order within equal timestamps").
type Entry struct {
	Time   time.Time
	Seq    int
	Action Action
}

// Schedule is a time-indexed, insertion-stable ordered sequence of Actions.
type Schedule struct {
	entries []Entry
	nextSeq int
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// Add inserts action at timestamp t, keeping entries sorted by (Time, Seq).
func (s *Schedule) Add(action Action, t time.Time) {
	e := Entry{Time: t, Seq: s.nextSeq, Action: action}
	s.nextSeq++

	idx := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Time.After(t)
	})
	s.entries = append(s.entries, Entry{})
	copy(s.entries[idx+1:], s.entries[idx:])
	s.entries[idx] = e
}

// Append adds every entry of other to s, preserving relative order within
// equal timestamps by renumbering sequence numbers, then re-sorting
// (append-with-sort, §3).
func (s *Schedule) Append(other *Schedule) {
	for _, e := range other.entries {
		s.Add(e.Action, e.Time)
	}
}

// Entries returns every entry in (Time, Seq) order. The returned slice must
// not be mutated by the caller.
func (s *Schedule) Entries() []Entry { return s.entries }

// Len reports the number of entries.
func (s *Schedule) Len() int { return len(s.entries) }

// FilterCurrentActions returns entries with timestamps in [t, t+period).
// Multiple actions at the same timestamp are returned in insertion order.
func (s *Schedule) FilterCurrentActions(t time.Time, period time.Duration) []Entry {
	end := t.Add(period)
	lo := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].Time.Before(t)
	})
	hi := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].Time.Before(end)
	})
	if lo >= hi {
		return nil
	}
	out := make([]Entry, hi-lo)
	copy(out, s.entries[lo:hi])
	return out
}

// Slice returns a new Schedule containing entries with timestamps in
// [from, to). Used for the replay-associativity property (P3): replaying
// S once must equal replaying S[:t*] then S[t*:].
func (s *Schedule) Slice(from, to time.Time) *Schedule {
	out := NewSchedule()
	lo := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].Time.Before(from)
	})
	hi := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].Time.Before(to)
	})
	for _, e := range s.entries[lo:hi] {
		out.Add(e.Action, e.Time)
	}
	return out
}
