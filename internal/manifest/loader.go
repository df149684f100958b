package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/recast/internal/ctxlog"
	"github.com/vk/recast/internal/fsutil"
	"github.com/vk/recast/internal/registry"
)

// Loader parses HCL manifest files and declares the records they contain.
type Loader struct{}

// NewLoader creates a new manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fieldBlock is one `field "name" { ... }` block. The body is kept raw and
// decoded against fieldBodySchema so validator attributes stay open-ended.
type fieldBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// recordBlock is one `record "id" { ... }` block.
type recordBlock struct {
	ID      string        `hcl:"id,label"`
	Extends string        `hcl:"extends,optional"`
	Fields  []*fieldBlock `hcl:"field,block"`
}

// fileRoot decodes the top level of a manifest file.
type fileRoot struct {
	Records []*recordBlock `hcl:"record,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// LoadPath loads every .hcl file under path (a file or a directory, walked
// lexically) and declares the records into reg, in file and block order.
func (l *Loader) LoadPath(ctx context.Context, reg *registry.Registry, path string) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(path, ".hcl")
	if err != nil {
		return fmt.Errorf("error accessing schema path %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl schema files found in path", "path", path)
		return nil
	}
	logger.Debug("Discovered schema files.", "count", len(files))

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse schema file %s: %s", file, diags.Error())
		}
		if err := l.declareFile(ctx, reg, hclFile); err != nil {
			return fmt.Errorf("in schema file %s: %w", file, err)
		}
		logger.Debug("Declared records from schema file.", "file", file)
	}
	return nil
}

// LoadSource declares records from in-memory HCL source. The filename is
// used only for diagnostics.
func (l *Loader) LoadSource(ctx context.Context, reg *registry.Registry, filename string, src []byte) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse schema source %s: %s", filename, diags.Error())
	}
	return l.declareFile(ctx, reg, hclFile)
}

// declareFile translates every record block of one parsed file and declares
// it. Blocks are processed in source order, so a parent record declared in
// the same file simply has to appear before its children.
func (l *Loader) declareFile(ctx context.Context, reg *registry.Registry, file *hcl.File) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode schema: %s", diags.Error())
	}

	for _, rec := range root.Records {
		fields := make([]registry.Field, 0, len(rec.Fields))
		for _, fb := range rec.Fields {
			field, err := translateField(ctx, rec.ID, fb.Name, fb.Body)
			if err != nil {
				return err
			}
			fields = append(fields, field)
		}
		if err := reg.Declare(rec.ID, rec.Extends, fields); err != nil {
			return err
		}
	}
	return nil
}
