package source

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/testutil"
)

type fakeSource struct{ name string }

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchAssets(ctx context.Context) ([]catalog.Asset, error) {
	return nil, nil
}

func fakeFactory(name, requiredKey string) Factory {
	return func(creds Credentials, _ *slog.Logger) (Source, bool) {
		if !creds.Has(requiredKey) {
			return nil, false
		}
		return &fakeSource{name: name}, true
	}
}

func TestRegistry(t *testing.T) {
	// The real adapters register on import elsewhere; this package sees only
	// what the test itself registers.
	Register("zeta", fakeFactory("zeta", "zeta_token"))
	Register("alpha", fakeFactory("alpha", "alpha_token"))

	assert.True(t, IsRegistered("alpha"))
	assert.False(t, IsRegistered("omega"))

	names := List()
	assert.Equal(t, []string{"alpha", "zeta"}, names, "names come back sorted")
}

func TestBuildSkipsUnconfigured(t *testing.T) {
	Register("zeta", fakeFactory("zeta", "zeta_token"))
	Register("alpha", fakeFactory("alpha", "alpha_token"))

	logger := testutil.NewTestLogger(t)

	sources := Build(Credentials{"zeta_token": "t"}, logger)
	require.Len(t, sources, 1)
	assert.Equal(t, "zeta", sources[0].Name())

	sources = Build(Credentials{"alpha_token": "a", "zeta_token": "z"}, logger)
	require.Len(t, sources, 2)
	assert.Equal(t, "alpha", sources[0].Name(), "build order follows sorted names")
	assert.Equal(t, "zeta", sources[1].Name())
}

func TestConfigured(t *testing.T) {
	Register("zeta", fakeFactory("zeta", "zeta_token"))
	Register("alpha", fakeFactory("alpha", "alpha_token"))

	got := Configured(Credentials{"alpha_token": "a"}, testutil.NewTestLogger(t))
	assert.True(t, got["alpha"])
	assert.False(t, got["zeta"])
}
