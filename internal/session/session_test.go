package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/gridcfg"
)

func sessionModel() *gridcfg.Model {
	return &gridcfg.Model{
		Configurations: []*gridcfg.ConfigurationDecl{
			{Name: "api", Role: "dependency-scope"},
			{
				Name:       "apiElements",
				Role:       "consumable",
				Extends:    []string{"api"},
				Attributes: map[string]cty.Value{"usage": cty.StringVal("api")},
			},
			{
				Name:    "classpath",
				Role:    "resolvable",
				Extends: []string{"api"},
				Dependencies: []gridcfg.DependencyDecl{
					{Group: "org.example", Name: "core", Version: "^1.0"},
				},
			},
		},
		Modules: []*gridcfg.ModuleDecl{
			{Group: "org.example", Name: "core", Versions: []string{"1.0.0", "1.4.0", "2.0.0"}},
			{Group: "org.example", Name: "extras", Versions: []string{"0.9.0", "1.1.0"}},
		},
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, sessionModel())
	require.NoError(t, err)

	failures := s.Lock(ctx)
	assert.Empty(t, failures)

	result, err := s.Resolve(ctx, 4)
	require.NoError(t, err)

	classpath, ok := result.Configuration("classpath")
	require.True(t, ok)
	require.Len(t, classpath.Selections, 1)
	assert.Equal(t, "1.4.0", classpath.Selections[0].Version)

	conf, ok := s.Container().Get("classpath")
	require.True(t, ok)
	assert.Equal(t, configuration.ArtifactsResolved, conf.State())

	require.NoError(t, s.Close(ctx))
}

func TestSessionResolvesDependenciesAddedByActions(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, sessionModel())
	require.NoError(t, err)

	classpath, ok := s.Container().Get("classpath")
	require.True(t, ok)
	require.NoError(t, classpath.OnDependencies(func(c *configuration.Configuration) {
		dep, err := configuration.NewDependency(s.IDs().Module("org.example", "extras"), "^1.0")
		require.NoError(t, err)
		require.NoError(t, c.AddDependency(dep))
	}))

	// The lock must not shut the door on the action's mutation.
	require.Empty(t, s.Lock(ctx))

	result, err := s.Resolve(ctx, 2)
	require.NoError(t, err)
	res, ok := result.Configuration("classpath")
	require.True(t, ok)
	require.Len(t, res.Selections, 2)
	assert.Equal(t, "org.example:extras", res.Selections[1].ID.String())
	assert.Equal(t, "1.1.0", res.Selections[1].Version)
}

func TestSessionLockSurfacesValidationFailures(t *testing.T) {
	ctx := context.Background()
	model := &gridcfg.Model{
		Configurations: []*gridcfg.ConfigurationDecl{
			// Consumable with no attributes fails lock validation.
			{Name: "badElements", Role: "consumable"},
		},
	}
	s, err := New(ctx, model)
	require.NoError(t, err)

	failures := s.Lock(ctx)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error(), "badElements")
}

func TestSessionSharesInternedIDs(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, sessionModel())
	require.NoError(t, err)

	conf, ok := s.Container().Get("classpath")
	require.True(t, ok)
	deps := conf.Dependencies()
	require.Len(t, deps, 1)
	assert.Same(t, s.IDs().Module("org.example", "core"), deps[0].ID)
}

func TestSessionRejectsBadModel(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, &gridcfg.Model{
		Modules: []*gridcfg.ModuleDecl{{Group: "g", Name: "n", Versions: []string{"bogus"}}},
	})
	require.Error(t, err)
}
