package app

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vk/depgrid/internal/report"
	"github.com/vk/depgrid/internal/resolver"
	"github.com/vk/depgrid/internal/session"
)

// buildReport is the serializable top-level report document.
type buildReport struct {
	Configurations []report.ConfigurationReport `yaml:"configurations"`
	Resolutions    []resolutionEntry            `yaml:"resolutions,omitempty"`
}

type resolutionEntry struct {
	Configuration string   `yaml:"configuration"`
	Modules       []string `yaml:"modules,omitempty"`
	Excluded      []string `yaml:"excluded,omitempty"`
}

func (a *App) render(output string, sess *session.Session, result *resolver.Result) error {
	doc := buildReport{}
	for _, conf := range sess.Container().All() {
		doc.Configurations = append(doc.Configurations, report.ForConfiguration(conf, report.StableClassifier))
	}
	for _, res := range result.All() {
		entry := resolutionEntry{Configuration: res.Name, Excluded: res.Excluded}
		for _, sel := range res.Selections {
			line := fmt.Sprintf("%s:%s", sel.ID, sel.Version)
			if sel.Pinned {
				line += " (pinned)"
			}
			entry.Modules = append(entry.Modules, line)
		}
		doc.Resolutions = append(doc.Resolutions, entry)
	}

	if output == "yaml" {
		encoded, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = a.outW.Write(encoded)
		return err
	}
	return a.renderText(doc)
}

func (a *App) renderText(doc buildReport) error {
	for _, cr := range doc.Configurations {
		fmt.Fprintf(a.outW, "configuration %s (%s, %s)\n", cr.Configuration, cr.Role, cr.State)
		for _, usage := range cr.Deprecations {
			fmt.Fprintf(a.outW, "  deprecated for %s\n", usage)
		}
		for _, rule := range cr.ExcludeRules {
			fmt.Fprintf(a.outW, "  exclude %s\n", rule)
		}
		if len(cr.BaseArtifacts) > 0 {
			fmt.Fprintf(a.outW, "  artifacts: %v\n", cr.BaseArtifacts)
		}
		for _, v := range cr.Variants {
			fmt.Fprintf(a.outW, "  variant %s\n", v.DisplayName)
			for _, attr := range v.Attributes {
				suffix := ""
				if attr.Incubating {
					suffix = " (incubating)"
				}
				fmt.Fprintf(a.outW, "    %s = %s%s\n", attr.Name, attr.Value, suffix)
			}
			for _, cap := range v.Capabilities {
				fmt.Fprintf(a.outW, "    capability %s\n", cap)
			}
			for _, art := range v.Artifacts {
				fmt.Fprintf(a.outW, "    artifact %s\n", art)
			}
		}
	}
	for _, res := range doc.Resolutions {
		fmt.Fprintf(a.outW, "resolved %s\n", res.Configuration)
		for _, m := range res.Modules {
			fmt.Fprintf(a.outW, "  %s\n", m)
		}
		for _, ex := range res.Excluded {
			fmt.Fprintf(a.outW, "  excluded %s\n", ex)
		}
	}
	return nil
}
