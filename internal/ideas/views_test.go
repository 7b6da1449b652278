package ideas

import (
	"context"
	"testing"

	"github.com/angelmondragon/startupidea/pkg/models"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	gw := newFakeGateway(
		models.Idea{ID: "2", CreatedAt: "2025-02-01T00:00:00.000Z", Title: "Coffee robots", Description: "Barista automation", Email: "a@x.com"},
		models.Idea{ID: "1", CreatedAt: "2025-01-01T00:00:00.000Z", Title: "Pet taxi", Description: "Rides for dogs", Email: "b@x.com"},
		models.Idea{ID: "3", CreatedAt: "2025-03-01T00:00:00.000Z", Title: "Solar kiosk", Description: "Charging COFFEE carts", Email: "a@x.com"},
	)
	s := newTestStore(t, gw)
	require.NoError(t, s.FetchIdeas(context.Background()))
	return s
}

func ids(list []Idea) []string {
	out := make([]string, 0, len(list))
	for _, idea := range list {
		out = append(out, idea.ID)
	}
	return out
}

func TestSearchMatchesTitleOrDescriptionCaseInsensitively(t *testing.T) {
	s := seededStore(t)
	require.Equal(t, []string{"2", "3"}, ids(s.Search("coffee")))
	require.Equal(t, []string{"1"}, ids(s.Search("DOGS")))
	require.Equal(t, []string{"2", "1", "3"}, ids(s.Search("  ")))
	require.Empty(t, s.Search("nothing"))
}

func TestTrendingAndRecentOrdering(t *testing.T) {
	s := seededStore(t)
	require.Equal(t, []string{"1", "2", "3"}, ids(s.Trending()))
	require.Equal(t, []string{"3", "2", "1"}, ids(s.Recent()))
	require.Equal(t, []string{"2", "1", "3"}, ids(s.Snapshot().Ideas), "views never reorder the collection")
}

func TestByOwnerAndIsOwner(t *testing.T) {
	s := seededStore(t)
	require.Equal(t, []string{"2", "3"}, ids(s.ByOwner("a@x.com")))
	require.Empty(t, s.ByOwner(""))

	idea, ok := s.Find("1")
	require.True(t, ok)
	require.True(t, IsOwner(idea, "b@x.com"))
	require.False(t, IsOwner(idea, "a@x.com"))
	require.False(t, IsOwner(Idea{}, ""))

	_, ok = s.Find("404")
	require.False(t, ok)
}
