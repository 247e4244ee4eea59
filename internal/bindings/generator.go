// Package bindings generates a Go source file that embeds extracted
// artifacts and names every component id as a constant, so Go code can
// render a component by id without knowing where its artifact lives.
package bindings

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/tackweld/internal/build"
	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
)

// FileName is the generated file written next to the artifacts.
const FileName = "tw_gen.go"

// Options configures generation.
type Options struct {
	// OutDir holds the artifacts and receives FileName.
	OutDir string
	// Prefix is the artifact file name prefix.
	Prefix string
	// Package overrides the package name derived from OutDir.
	Package string
}

// Binding pairs a component id with its exported constant name.
type Binding struct {
	ID    string
	Const string
}

type fileContext struct {
	Package  string
	Prefix   string
	Bindings []Binding
}

const fileTemplate = `// Code generated by tackweld bindings; DO NOT EDIT.

package {{.Package}}

import (
	"embed"

	"github.com/conneroisu/tackweld/pkg/tw"
)

//go:embed {{.Prefix}}*
var artifacts embed.FS

// Templates holds every extracted component, keyed by id.
var Templates = tw.MustLoad(artifacts, {{printf "%q" .Prefix}})

// Component ids.
const (
{{- range .Bindings}}
	{{.Const}} = {{printf "%q" .ID}}
{{- end}}
)

// Render renders the component id with args.
func Render(id string, args tw.Args) (string, error) {
	return Templates.Render(id, args)
}
`

var fileTmpl = template.Must(template.New("bindings").Parse(fileTemplate))

// ConstName converts a component id such as "nav_bar" into "IDNavBar".
func ConstName(id string) string {
	title := cases.Title(language.English, cases.NoLower)

	var b strings.Builder
	b.WriteString("ID")
	for _, part := range strings.Split(id, "_") {
		if part == "" {
			continue
		}
		b.WriteString(title.String(part))
	}
	return b.String()
}

// Bindings maps ids to constant names, sorted by id. Two ids that produce
// the same constant name are a template error.
func Bindings(ids []string) ([]Binding, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	owners := make(map[string]string, len(sorted))
	out := make([]Binding, 0, len(sorted))

	for _, id := range sorted {
		name := ConstName(id)
		if other, exists := owners[name]; exists {
			return nil, errors.NewTemplateError(errors.ErrCodeBindingCollision,
				fmt.Sprintf("components %q and %q both bind to %s", other, id, name))
		}
		owners[name] = id
		out = append(out, Binding{ID: id, Const: name})
	}

	return out, nil
}

// PackageName derives a package name from the output directory, falling
// back to "templates" when the directory name is not usable.
func PackageName(outDir string) string {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}

	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(abs)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" || name[0] >= '0' && name[0] <= '9' || token.IsKeyword(name) {
		return "templates"
	}
	return name
}

// Generate renders the bindings source for ids.
func Generate(opts Options, ids []string) ([]byte, error) {
	// go:embed refuses a pattern that matches no files.
	if len(ids) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeNoComponents,
			"no components to bind: the generated //go:embed pattern would match no artifacts")
	}

	bindings, err := Bindings(ids)
	if err != nil {
		return nil, err
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = build.DefaultPrefix
	}
	if strings.HasPrefix(FileName, prefix) {
		return nil, errors.ErrConfigInvalid(fmt.Sprintf("prefix %q would embed %s as an artifact", prefix, FileName))
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = PackageName(opts.OutDir)
	}
	if !token.IsIdentifier(pkg) {
		return nil, errors.ErrConfigInvalid("invalid package name: " + pkg)
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, fileContext{Package: pkg, Prefix: prefix, Bindings: bindings}); err != nil {
		return nil, errors.WrapInternal(err, "failed to execute bindings template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.WrapInternal(err, "generated bindings do not parse")
	}
	return src, nil
}

// Write generates bindings for ids and writes them to OutDir/FileName.
func Write(ctx context.Context, opts Options, ids []string, logger logging.Logger) (string, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	src, err := Generate(opts, ids)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return "", errors.ErrWrite(opts.OutDir, err)
	}

	path := filepath.Join(opts.OutDir, FileName)
	if err := build.WriteFileAtomic(path, src); err != nil {
		return "", errors.ErrWrite(path, err)
	}

	logger.Info(ctx, "Wrote component bindings", "path", path, "components", len(ids))
	return path, nil
}
