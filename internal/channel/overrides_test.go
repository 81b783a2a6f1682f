package channel

import (
	"context"
	"testing"

	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOverride_ReplacesPreviousDecision(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()
	overrides := NewOverrideService(service.repos)

	seedEntry(t, service, "9", "Gremlins", "Comedy", 106)

	_, err := overrides.SetOverride(ctx, "Christmas", "9", models.OverrideBlacklist)
	require.NoError(t, err)
	_, err = overrides.SetOverride(ctx, "Christmas", "9", models.OverrideWhitelist)
	require.NoError(t, err)

	rows, err := overrides.ListOverrides(ctx, "Christmas")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.OverrideWhitelist, rows[0].OverrideType)

	set, err := overrides.Overrides(ctx, "Christmas")
	require.NoError(t, err)
	assert.True(t, set.IsWhitelisted("9"))
	assert.False(t, set.IsBlacklisted("9"))
}

func TestSetOverride_Validation(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()
	overrides := NewOverrideService(service.repos)

	seedEntry(t, service, "9", "Gremlins", "Comedy", 106)

	_, err := overrides.SetOverride(ctx, "Christmas", "9", "maybe")
	assert.ErrorIs(t, err, ErrInvalidOverrideType)

	_, err = overrides.SetOverride(ctx, "Christmas", "missing", models.OverrideWhitelist)
	assert.True(t, IsEntryNotFound(err))
}

func TestRemoveOverride(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()
	overrides := NewOverrideService(service.repos)

	seedEntry(t, service, "9", "Gremlins", "Comedy", 106)
	_, err := overrides.SetOverride(ctx, "Christmas", "9", models.OverrideBlacklist)
	require.NoError(t, err)

	require.NoError(t, overrides.RemoveOverride(ctx, "Christmas", "9"))

	err = overrides.RemoveOverride(ctx, "Christmas", "9")
	assert.True(t, IsOverrideNotFound(err))
}
