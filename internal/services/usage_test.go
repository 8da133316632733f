package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphgen/infographic-api/internal/models"
)

func TestUsageCapForContributors(t *testing.T) {
	s := NewUsageService(nil)

	for i := 0; i < models.ContributorGenerationCap; i++ {
		require.NoError(t, s.CheckAllowance("contributor", models.RoleContributor))
		require.NoError(t, s.Increment("contributor"))
	}

	err := s.CheckAllowance("contributor", models.RoleContributor)
	assert.ErrorIs(t, err, ErrUsageLimitReached)
}

func TestAdminsAreNeverCapped(t *testing.T) {
	s := NewUsageService(nil)

	for i := 0; i < models.ContributorGenerationCap*3; i++ {
		require.NoError(t, s.CheckAllowance("admin", models.RoleAdmin))
		require.NoError(t, s.Increment("admin"))
	}

	u, err := s.Get("admin", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ContributorGenerationCap*3, u.Used)
	assert.Equal(t, -1, u.Limit)
	assert.Equal(t, -1, u.Remaining)
}

func TestUsageSnapshot(t *testing.T) {
	s := NewUsageService(nil)
	require.NoError(t, s.Increment("contributor"))

	u, err := s.Get("contributor", models.RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)
	assert.Equal(t, models.ContributorGenerationCap, u.Limit)
	assert.Equal(t, models.ContributorGenerationCap-1, u.Remaining)
}

func TestUsageUnknownUserIsZero(t *testing.T) {
	s := NewUsageService(nil)
	u, err := s.Get("nobody", models.RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
}

func TestIncrementIsSafeConcurrently(t *testing.T) {
	s := NewUsageService(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Increment("admin")
		}()
	}
	wg.Wait()

	u, err := s.Get("admin", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 50, u.Used)
}

func TestStatsWithoutDatabase(t *testing.T) {
	s := NewUsageService(nil)
	require.NoError(t, s.Increment("contributor"))

	stats, err := s.Stats("contributor")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Succeeded)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestResetUsage(t *testing.T) {
	s := NewUsageService(nil)
	require.NoError(t, s.Increment("contributor"))
	require.NoError(t, s.Increment("contributor"))
	require.ErrorIs(t, s.CheckAllowance("contributor", models.RoleContributor), ErrUsageLimitReached)

	require.NoError(t, s.ResetUsage("contributor"))
	require.NoError(t, s.CheckAllowance("contributor", models.RoleContributor))

	u, err := s.Get("contributor", models.RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
}
