package ideas

import (
	"sort"
	"strings"
	"time"
)

// Find looks up an idea by id in the local collection.
func (s *Store) Find(id string) (Idea, bool) {
	for _, idea := range s.state.Get().Ideas {
		if idea.ID == id {
			return idea, true
		}
	}
	return Idea{}, false
}

// Search matches query case-insensitively against title or description. A blank query returns everything.
func (s *Store) Search(query string) []Idea {
	all := s.Snapshot().Ideas
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]Idea, 0, len(all))
	for _, idea := range all {
		if strings.Contains(strings.ToLower(idea.Title), q) || strings.Contains(strings.ToLower(idea.Description), q) {
			out = append(out, idea)
		}
	}
	return out
}

// Trending lists the oldest ideas first.
func (s *Store) Trending() []Idea {
	out := s.Snapshot().Ideas
	sortByCreatedAt(out, true)
	return out
}

// Recent lists the newest ideas first.
func (s *Store) Recent() []Idea {
	out := s.Snapshot().Ideas
	sortByCreatedAt(out, false)
	return out
}

// ByOwner returns the ideas whose email matches exactly.
func (s *Store) ByOwner(email string) []Idea {
	all := s.Snapshot().Ideas
	out := make([]Idea, 0, len(all))
	for _, idea := range all {
		if IsOwner(idea, email) {
			out = append(out, idea)
		}
	}
	return out
}

func sortByCreatedAt(list []Idea, ascending bool) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := createdAt(list[i]), createdAt(list[j])
		if a.Equal(b) {
			return false
		}
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
}

// createdAt parses the stored instant; unparseable values sort as the zero time.
func createdAt(idea Idea) time.Time {
	t, err := time.Parse(time.RFC3339Nano, idea.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
