package channel

import (
	"context"
	"testing"

	"github.com/netpersona/popcorn/internal/filter"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scaryHalloween(t *testing.T) *models.ThemedChannel {
	t.Helper()
	for _, ch := range DefaultThemedChannels() {
		if ch.Name == "Scary Halloween" {
			return ch
		}
	}
	require.FailNow(t, "Scary Halloween is not a default channel")
	return nil
}

func TestDefaultScaryHalloween(t *testing.T) {
	criteria := filter.ParseCriteria(scaryHalloween(t))
	engine := filter.NewEngine(nil)

	rated := func(sourceID, title, genre, summary string) *models.CatalogEntry {
		e := models.NewCatalogEntry(sourceID, title, genre, 100)
		rating := "R"
		e.ContentRating = &rating
		e.Summary = &summary
		return e
	}

	tests := []struct {
		name  string
		entry *models.CatalogEntry
		want  bool
	}{
		{"horror always", rated("1", "Hereditary", "Horror", "A family unravels."), true},
		{"thriller with franchise keyword", rated("2", "Halloween Kills", "Thriller", "Michael returns on Halloween night."), true},
		{"drama that saw a ring", rated("3", "The Proposal Year", "Drama", "She saw the ring and said yes."), false},
		{"drama with a scream and a nightmare", rated("4", "Night Shift", "Drama", "A nurse's nightmare week ends in a scream of joy."), false},
		{"sports drama in the ring", rated("5", "Last Round", "Sport", "A boxer returns to the ring in a reign of terror."), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.IsEligible(context.Background(), criteria, tt.entry, filter.Overrides{})
			assert.Equal(t, tt.want, got)
		})
	}
}
