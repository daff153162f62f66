package report

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
	"github.com/vk/depgrid/internal/configuration"
)

// AttributeEntry is the serializable form of an attribute snapshot.
type AttributeEntry struct {
	Name       string `yaml:"name"`
	Value      string `yaml:"value"`
	Incubating bool   `yaml:"incubating,omitempty"`
}

// VariantEntry is the serializable form of one outgoing variant.
type VariantEntry struct {
	Name         string           `yaml:"name,omitempty"`
	DisplayName  string           `yaml:"displayName"`
	Attributes   []AttributeEntry `yaml:"attributes,omitempty"`
	Capabilities []string         `yaml:"capabilities,omitempty"`
	Artifacts    []string         `yaml:"artifacts,omitempty"`
}

// ConfigurationReport is the full outgoing-variant report for one
// configuration.
type ConfigurationReport struct {
	Configuration string `yaml:"configuration"`
	Role          string `yaml:"role"`
	State         string `yaml:"state"`
	// Deprecations lists the usages this configuration is deprecated for,
	// out of "consumption", "resolution" and "declaration".
	Deprecations  []string       `yaml:"deprecations,omitempty"`
	ExcludeRules  []string       `yaml:"excludeRules,omitempty"`
	Variants      []VariantEntry `yaml:"variants,omitempty"`
	BaseArtifacts []string       `yaml:"baseArtifacts,omitempty"`
}

// collector builds a ConfigurationReport through the variant visitor.
type collector struct {
	classifier Classifier
	report     *ConfigurationReport
}

func (c *collector) VisitArtifacts(artifacts []artifact.Artifact) {
	c.report.BaseArtifacts = artifactNames(artifacts)
}

func (c *collector) VisitOwnVariant(displayName string, attributes attr.Immutable, capabilities []capability.Capability, artifacts []artifact.Artifact) {
	c.report.Variants = append(c.report.Variants, c.entry("", displayName, attributes, capabilities, artifacts))
}

func (c *collector) VisitChildVariant(name, displayName string, attributes attr.Immutable, capabilities []capability.Capability, artifacts []artifact.Artifact) {
	c.report.Variants = append(c.report.Variants, c.entry(name, displayName, attributes, capabilities, artifacts))
}

func (c *collector) entry(name, displayName string, attributes attr.Immutable, capabilities []capability.Capability, artifacts []artifact.Artifact) VariantEntry {
	e := VariantEntry{
		Name:        name,
		DisplayName: displayName,
		Artifacts:   artifactNames(artifacts),
	}
	for _, key := range attributes.Keys() {
		snap := FromImmutable(key, attributes, c.classifier)
		e.Attributes = append(e.Attributes, AttributeEntry{
			Name:       snap.Name(),
			Value:      renderValue(snap.Value()),
			Incubating: snap.IsIncubating(),
		})
	}
	for _, cap := range capabilities {
		e.Capabilities = append(e.Capabilities, cap.String())
	}
	return e
}

// ForConfiguration captures the outgoing-variant report of a configuration
// at the time of the call.
func ForConfiguration(conf *configuration.Configuration, classifier Classifier) ConfigurationReport {
	if classifier == nil {
		classifier = StableClassifier
	}
	r := ConfigurationReport{
		Configuration: conf.Name(),
		Role:          conf.RoleAtCreation().String(),
		State:         conf.State().String(),
	}
	if conf.IsDeprecatedForConsumption() {
		r.Deprecations = append(r.Deprecations, "consumption")
	}
	if conf.IsDeprecatedForResolution() {
		r.Deprecations = append(r.Deprecations, "resolution")
	}
	if conf.IsDeprecatedForDeclaration() {
		r.Deprecations = append(r.Deprecations, "declaration")
	}
	for _, rule := range conf.AllExcludeRules() {
		r.ExcludeRules = append(r.ExcludeRules, rule.String())
	}
	c := &collector{classifier: classifier, report: &r}
	conf.CollectVariants(c)
	return r
}

func artifactNames(artifacts []artifact.Artifact) []string {
	out := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if a.File != "" {
			out = append(out, a.File)
			continue
		}
		out = append(out, a.FileName())
	}
	return out
}

// renderValue flattens a cty value for display.
func renderValue(v cty.Value) string {
	switch {
	case v == cty.NilVal || v.IsNull():
		return "null"
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	default:
		return v.GoString()
	}
}
