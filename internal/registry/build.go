package registry

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/excludes"
	"github.com/vk/depgrid/internal/gridcfg"
	"github.com/vk/depgrid/internal/moduleid"
)

// FromModel builds a populated container from loaded grid declarations.
// Configurations are created first so extends and consistent_with can refer
// to any declaration regardless of order.
func FromModel(ctx context.Context, model *gridcfg.Model, ids *moduleid.Registry) (*Container, error) {
	logger := ctxlog.FromContext(ctx)
	ct := NewContainer(ids)

	for _, decl := range model.Configurations {
		role := configuration.RoleLegacy
		if decl.Role != "" {
			parsed, err := configuration.ParseRole(decl.Role)
			if err != nil {
				return nil, fmt.Errorf("configuration %q: %w", decl.Name, err)
			}
			role = parsed
		}
		if _, err := ct.Create(decl.Name, role); err != nil {
			return nil, err
		}
	}

	for _, decl := range model.Configurations {
		if err := ct.populate(decl); err != nil {
			return nil, fmt.Errorf("configuration %q: %w", decl.Name, err)
		}
	}

	logger.Debug("configuration container built", "configurations", len(model.Configurations))
	return ct, nil
}

func (ct *Container) populate(decl *gridcfg.ConfigurationDecl) error {
	conf, _ := ct.Get(decl.Name)

	if decl.Consumable != nil {
		if err := conf.SetCanBeConsumed(*decl.Consumable); err != nil {
			return err
		}
	}
	if decl.Resolvable != nil {
		if err := conf.SetCanBeResolved(*decl.Resolvable); err != nil {
			return err
		}
	}
	if decl.Declarable != nil {
		if err := conf.SetCanBeDeclaredAgainst(*decl.Declarable); err != nil {
			return err
		}
	}

	for _, parentName := range decl.Extends {
		parent, ok := ct.Get(parentName)
		if !ok {
			return fmt.Errorf("extends unknown configuration %q", parentName)
		}
		if err := conf.AddExtendsFrom(parent); err != nil {
			return err
		}
	}

	if decl.ConsistentWith != "" {
		source, ok := ct.Get(decl.ConsistentWith)
		if !ok {
			return fmt.Errorf("consistent_with names unknown configuration %q", decl.ConsistentWith)
		}
		if err := conf.SetConsistentResolutionSource(source); err != nil {
			return err
		}
	}

	if err := setAttributes(decl.Attributes, conf.SetAttribute); err != nil {
		return err
	}

	for _, d := range decl.Dependencies {
		dep, err := configuration.NewDependency(ct.ids.Module(d.Group, d.Name), d.Version)
		if err != nil {
			return err
		}
		if err := conf.AddDependency(dep); err != nil {
			return err
		}
	}
	for _, e := range decl.Excludes {
		if err := conf.AddExcludeRule(excludes.Rule{Group: e.Group, Module: e.Module}); err != nil {
			return err
		}
	}
	for _, a := range decl.Artifacts {
		if err := conf.AddArtifact(artifactFromDecl(a)); err != nil {
			return err
		}
	}
	for _, c := range decl.Capabilities {
		if err := conf.AddCapability(capability.Capability{Group: c.Group, Name: c.Name, Version: c.Version}); err != nil {
			return err
		}
	}

	for _, v := range decl.Variants {
		variant, err := conf.RegisterChildVariant(v.Name)
		if err != nil {
			return err
		}
		if err := setAttributes(v.Attributes, variant.SetAttribute); err != nil {
			return fmt.Errorf("variant %q: %w", v.Name, err)
		}
		for _, a := range v.Artifacts {
			if err := variant.AddArtifact(artifactFromDecl(a)); err != nil {
				return err
			}
		}
		for _, c := range v.Capabilities {
			if err := variant.AddCapability(capability.Capability{Group: c.Group, Name: c.Name, Version: c.Version}); err != nil {
				return err
			}
		}
	}
	return nil
}

func setAttributes(values map[string]cty.Value, set func(attr.Key, cty.Value) error) error {
	for name, value := range values {
		if err := set(attr.NewKey(name, value.Type()), value); err != nil {
			return err
		}
	}
	return nil
}

func artifactFromDecl(a gridcfg.ArtifactDecl) artifact.Artifact {
	return artifact.Artifact{
		Name:       a.Name,
		Type:       a.Type,
		Classifier: a.Classifier,
		File:       a.File,
	}
}
