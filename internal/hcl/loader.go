package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/gridcfg"
	"github.com/vk/depgrid/internal/schema"
)

// Loader parses .hcl grid files into the format-agnostic model.
type Loader struct{}

// NewLoader creates an HCL grid loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every given path (a file, or a directory scanned for .hcl
// files) and merges the declarations into one model. Declaration order
// follows file order, files sorted by name within a directory.
func (l *Loader) Load(ctx context.Context, paths ...string) (*gridcfg.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("grid files collected", "count", len(files))

	parser := hclparse.NewParser()
	model := &gridcfg.Model{}
	// declaredIn remembers which file declared each name, for duplicate
	// diagnostics; existence itself is checked against the model.
	declaredIn := make(map[string]string)

	for _, path := range files {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", path, diags)
		}

		var grid schema.GridConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &grid); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", path, diags)
		}

		for _, sc := range grid.Configurations {
			if _, ok := model.Configuration(sc.Name); ok {
				return nil, fmt.Errorf("configuration %q declared in both %s and %s", sc.Name, declaredIn[sc.Name], path)
			}
			declaredIn[sc.Name] = path
			decl, err := l.translateConfiguration(sc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			model.Configurations = append(model.Configurations, decl)
		}
		for _, sm := range grid.Modules {
			model.Modules = append(model.Modules, &gridcfg.ModuleDecl{
				Group:    sm.Group,
				Name:     sm.Name,
				Versions: sm.Versions,
			})
		}
	}

	logger.Debug("grid model loaded",
		"configurations", len(model.Configurations),
		"modules", len(model.Modules))
	return model, nil
}

func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("grid path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("grid path %s: %w", path, err)
		}
		var dirFiles []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".hcl") {
				dirFiles = append(dirFiles, filepath.Join(path, e.Name()))
			}
		}
		sort.Strings(dirFiles)
		files = append(files, dirFiles...)
	}
	return files, nil
}
