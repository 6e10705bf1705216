package domain

import (
	"sort"
	"time"
)

type Ballot struct {
	ID        string // ULID, sortable by cast time
	VoterID   string
	Candidate string
	CastAt    time.Time
}

// Tally maps a candidate label to its exact number of ballots.
type Tally map[string]int

// Total returns the number of ballots counted.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// TallyEntry is one row of published results.
type TallyEntry struct {
	Candidate string
	Count     int
}

// Ranked orders the tally by count descending, ties broken by candidate.
func (t Tally) Ranked() []TallyEntry {
	out := make([]TallyEntry, 0, len(t))
	for c, n := range t {
		out = append(out, TallyEntry{Candidate: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Candidate < out[j].Candidate
	})
	return out
}
