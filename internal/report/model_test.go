package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/excludes"
)

func TestForConfiguration(t *testing.T) {
	usage := attr.StringKey("usage")
	conf := configuration.New("apiElements", configuration.RoleConsumable)
	require.NoError(t, conf.SetAttribute(usage, cty.StringVal("api")))
	require.NoError(t, conf.AddArtifact(artifact.Artifact{Name: "lib", Type: "jar"}))
	require.NoError(t, conf.AddExcludeRule(excludes.Rule{Group: "org.slow", Module: "bloat"}))

	sources, err := conf.RegisterChildVariant("sources")
	require.NoError(t, err)
	require.NoError(t, sources.SetAttribute(usage, cty.StringVal("sources")))
	require.NoError(t, sources.AddArtifact(artifact.Artifact{Name: "lib", Type: "jar", Classifier: "sources"}))

	r := ForConfiguration(conf, ClassifierFunc(func(key attr.Key, _ cty.Value) bool {
		return key.Name() == "usage"
	}))

	assert.Equal(t, "apiElements", r.Configuration)
	assert.Equal(t, "consumable", r.Role)
	assert.Equal(t, "unresolved", r.State)
	assert.Equal(t, []string{"org.slow:bloat"}, r.ExcludeRules)
	assert.Empty(t, r.BaseArtifacts, "consumable configurations report variants, not base artifacts")

	require.Len(t, r.Variants, 2)
	own := r.Variants[0]
	assert.Empty(t, own.Name)
	assert.Equal(t, "configuration 'apiElements'", own.DisplayName)
	require.Len(t, own.Attributes, 1)
	assert.Equal(t, AttributeEntry{Name: "usage", Value: "api", Incubating: true}, own.Attributes[0])
	assert.Equal(t, []string{"lib.jar"}, own.Artifacts)

	child := r.Variants[1]
	want := VariantEntry{
		Name:        "sources",
		DisplayName: "variant 'sources' of configuration 'apiElements'",
		Attributes:  []AttributeEntry{{Name: "usage", Value: "sources", Incubating: true}},
		Artifacts:   []string{"lib-sources.jar"},
	}
	if diff := cmp.Diff(want, child); diff != "" {
		t.Errorf("child variant mismatch (-want +got):\n%s", diff)
	}
}

func TestForConfigurationIsStableAcrossCalls(t *testing.T) {
	conf := configuration.New("apiElements", configuration.RoleConsumable)
	require.NoError(t, conf.SetAttribute(attr.StringKey("usage"), cty.StringVal("api")))

	first := ForConfiguration(conf, nil)
	second := ForConfiguration(conf, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ between calls (-first +second):\n%s", diff)
	}
}

func TestForConfigurationReportsDeprecations(t *testing.T) {
	conf := configuration.New("compile", configuration.RoleLegacy)
	require.NoError(t, conf.DeprecateForConsumption())
	require.NoError(t, conf.DeprecateForDeclaration())

	r := ForConfiguration(conf, nil)
	assert.Equal(t, []string{"consumption", "declaration"}, r.Deprecations)

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "deprecations:")
	assert.Contains(t, string(out), "- consumption")

	assert.Empty(t, ForConfiguration(configuration.New("fresh", configuration.RoleLegacy), nil).Deprecations)
}

func TestForConfigurationResolvableOnly(t *testing.T) {
	conf := configuration.New("classpath", configuration.RoleResolvable)
	require.NoError(t, conf.AddArtifact(artifact.Artifact{Name: "out", Type: "zip"}))

	r := ForConfiguration(conf, nil)
	assert.Empty(t, r.Variants)
	assert.Equal(t, []string{"out.zip"}, r.BaseArtifacts)
}

func TestReportMarshalsToYAML(t *testing.T) {
	conf := configuration.New("apiElements", configuration.RoleConsumable)
	require.NoError(t, conf.SetAttribute(attr.StringKey("usage"), cty.StringVal("api")))

	out, err := yaml.Marshal(ForConfiguration(conf, nil))
	require.NoError(t, err)

	assert.Contains(t, string(out), "configuration: apiElements")
	assert.Contains(t, string(out), "name: usage")
	assert.Contains(t, string(out), "value: api")
	assert.NotContains(t, string(out), "incubating", "stable attributes omit the flag")
}
