package tournament

import (
	"sort"
	"strings"
)

// Tournament is a single deduplicated tournament listing. It is a value
// object: records are fully recomputed on every refresh and never mutated
// in place.
type Tournament struct {
	Title    string `json:"title"`
	Date     Date   `json:"date"`
	Source   string `json:"source"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

// Key returns the identity key of a record. Two records with the same key
// describe the same real-world event.
func (t Tournament) Key() string {
	return strings.ToLower(t.Source) + "|" + strings.ToLower(t.Title) + "|" + t.Date.String()
}

// Aggregate is the full cache payload: the deduplicated dataset plus
// refresh metadata.
type Aggregate struct {
	UpdatedAt   string            `json:"updated_at"`
	Tournaments []Tournament      `json:"tournaments"`
	Errors      map[string]string `json:"errors"`
}

// NewAggregate creates an empty Aggregate with initialized collections.
func NewAggregate() Aggregate {
	return Aggregate{
		Tournaments: make([]Tournament, 0),
		Errors:      make(map[string]string),
	}
}

// Dedupe removes records sharing an identity key, keeping the first
// occurrence, and sorts the survivors by date ascending. The sort is
// stable: records with equal dates keep their input order, so repeated
// refreshes over identical inputs produce identical output.
func Dedupe(records []Tournament) []Tournament {
	seen := make(map[string]bool, len(records))
	unique := make([]Tournament, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, rec)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Date.Before(unique[j].Date)
	})

	return unique
}
