package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/gridcfg"
	"github.com/vk/depgrid/internal/schema"
)

// translateConfiguration converts the HCL-specific configuration schema into
// the agnostic model.
func (l *Loader) translateConfiguration(sc *schema.Configuration) (*gridcfg.ConfigurationDecl, error) {
	attrs, err := extractAttributes(sc.Attributes)
	if err != nil {
		return nil, fmt.Errorf("configuration %q: %w", sc.Name, err)
	}

	decl := &gridcfg.ConfigurationDecl{
		Name:           sc.Name,
		Role:           sc.Role,
		Extends:        sc.Extends,
		Consumable:     sc.Consumable,
		Resolvable:     sc.Resolvable,
		Declarable:     sc.Declarable,
		ConsistentWith: sc.ConsistentWith,
		Attributes:     attrs,
	}

	for _, d := range sc.Dependencies {
		decl.Dependencies = append(decl.Dependencies, gridcfg.DependencyDecl{
			Group:   d.Group,
			Name:    d.Name,
			Version: d.Version,
		})
	}
	for _, e := range sc.Excludes {
		decl.Excludes = append(decl.Excludes, gridcfg.ExcludeDecl{Group: e.Group, Module: e.Module})
	}
	for _, a := range sc.Artifacts {
		decl.Artifacts = append(decl.Artifacts, translateArtifact(a))
	}
	for _, c := range sc.Capabilities {
		decl.Capabilities = append(decl.Capabilities, translateCapability(c))
	}
	for _, v := range sc.Variants {
		variant, err := l.translateVariant(v)
		if err != nil {
			return nil, fmt.Errorf("configuration %q: %w", sc.Name, err)
		}
		decl.Variants = append(decl.Variants, variant)
	}
	return decl, nil
}

func (l *Loader) translateVariant(sv *schema.Variant) (gridcfg.VariantDecl, error) {
	attrs, err := extractAttributes(sv.Attributes)
	if err != nil {
		return gridcfg.VariantDecl{}, fmt.Errorf("variant %q: %w", sv.Name, err)
	}
	decl := gridcfg.VariantDecl{Name: sv.Name, Attributes: attrs}
	for _, a := range sv.Artifacts {
		decl.Artifacts = append(decl.Artifacts, translateArtifact(a))
	}
	for _, c := range sv.Capabilities {
		decl.Capabilities = append(decl.Capabilities, translateCapability(c))
	}
	return decl, nil
}

func translateArtifact(a *schema.Artifact) gridcfg.ArtifactDecl {
	return gridcfg.ArtifactDecl{
		Name:       a.Name,
		Type:       a.Type,
		Classifier: a.Classifier,
		File:       a.File,
	}
}

func translateCapability(c *schema.Capability) gridcfg.CapabilityDecl {
	return gridcfg.CapabilityDecl{Group: c.Group, Name: c.Name, Version: c.Version}
}

// extractAttributes evaluates the attributes of an 'attributes' block into
// cty values. Expressions must be constant; there is no evaluation context
// in grid files.
func extractAttributes(block *schema.AttributesBlock) (map[string]cty.Value, error) {
	if block == nil || block.Body == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, diags)
		}
		out[name] = val
	}
	return out, nil
}
