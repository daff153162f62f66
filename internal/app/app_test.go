package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vk/depgrid/internal/hcl"
)

const appTestGrid = `
module "org.example" "core" {
  versions = ["1.0.0", "1.4.0", "2.0.0"]
}

configuration "api" {
  role = "dependency-scope"
}

configuration "apiElements" {
  role    = "consumable"
  extends = ["api"]

  attributes {
    usage = "api"
  }

  artifact "lib" {
    type = "jar"
  }
}

configuration "classpath" {
  role    = "resolvable"
  extends = ["api"]

  dependency "org.example" "core" {
    version = "^1.0"
  }
}
`

func writeAppGrid(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfigRequiresGridPath(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(Config{GridPath: "grid.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, 1, cfg.WorkerCount)
}

func TestAppRunTextReport(t *testing.T) {
	cfg, err := NewConfig(Config{
		GridPath: writeAppGrid(t, appTestGrid),
		LogLevel: "error",
		Output:   "text",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := NewApp(&out, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(context.Background(), cfg))

	text := out.String()
	assert.Contains(t, text, "configuration apiElements (consumable,")
	assert.Contains(t, text, "usage = api")
	assert.Contains(t, text, "resolved classpath")
	assert.Contains(t, text, "org.example:core:1.4.0")
}

func TestAppRunYAMLReport(t *testing.T) {
	cfg, err := NewConfig(Config{
		GridPath: writeAppGrid(t, appTestGrid),
		LogLevel: "error",
		Output:   "yaml",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := NewApp(&out, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(context.Background(), cfg))

	var doc buildReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Configurations, 3)
	require.Len(t, doc.Resolutions, 1)
	assert.Equal(t, "classpath", doc.Resolutions[0].Configuration)
	assert.Equal(t, []string{"org.example:core:1.4.0"}, doc.Resolutions[0].Modules)
}

func TestAppRunFailsOnLockValidation(t *testing.T) {
	// Consumable configuration with no attributes cannot lock cleanly.
	grid := `configuration "badElements" { role = "consumable" }`
	cfg, err := NewConfig(Config{
		GridPath: writeAppGrid(t, grid),
		LogLevel: "error",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := NewApp(&out, cfg, hcl.NewLoader())
	err = a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock validation")
}

func TestAppRunFailsOnUnresolvableConstraint(t *testing.T) {
	grid := `
module "org.example" "core" {
  versions = ["1.0.0"]
}

configuration "classpath" {
  role = "resolvable"

  dependency "org.example" "core" {
    version = "^9.0"
  }
}
`
	cfg, err := NewConfig(Config{
		GridPath: writeAppGrid(t, grid),
		LogLevel: "error",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := NewApp(&out, cfg, hcl.NewLoader())
	err = a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not resolve configuration 'classpath'")
}

func TestNewAppPanicsOnMissingGrid(t *testing.T) {
	cfg, err := NewConfig(Config{GridPath: "/does/not/exist.hcl", LogLevel: "error"})
	require.NoError(t, err)

	assert.Panics(t, func() {
		NewApp(&bytes.Buffer{}, cfg, hcl.NewLoader())
	})
}
