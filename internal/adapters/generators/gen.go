// Package generators implements the artifact generators of the pipeline:
// TypeScript type definitions, the request client, reactive data hooks
// and streaming-aware hooks.
package generators

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/go-openapi/inflect"
	"go.trai.ch/zerr"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{"join": strings.Join}).ParseFS(templateFS, "templates/*.tmpl"),
)

// Generator names, which double as pipeline ordering keys.
const (
	TypesName     = "types"
	ClientName    = "client"
	HooksName     = "hooks"
	StreamingName = "streaming"
)

// primitives maps wire-level field types to their TypeScript rendering.
var primitives = map[string]string{
	"string":   "string",
	"str":      "string",
	"uuid":     "string",
	"datetime": "string",
	"date":     "string",
	"int":      "number",
	"integer":  "number",
	"float":    "number",
	"number":   "number",
	"bool":     "boolean",
	"boolean":  "boolean",
	"any":      "unknown",
	"object":   "Record<string, unknown>",
	"dict":     "Record<string, unknown>",
}

// tsType renders a schema field type as TypeScript. Array suffixes are
// preserved, named types pass through untouched.
func tsType(schema *domain.Schema, fieldType string) string {
	if base, ok := strings.CutSuffix(fieldType, "[]"); ok {
		return tsType(schema, base) + "[]"
	}
	if ts, ok := primitives[fieldType]; ok {
		return ts
	}
	if _, ok := schema.Types[fieldType]; ok {
		return fieldType
	}
	return "unknown"
}

// refType renders an operation payload reference as TypeScript. The
// reference must resolve to a declared type or a primitive.
func refType(schema *domain.Schema, ref domain.TypeRef) (string, error) {
	if ref.IsZero() {
		return "void", nil
	}
	base, ok := primitives[ref.Name]
	if !ok {
		if _, declared := schema.Types[ref.Name]; !declared {
			return "", zerr.With(domain.ErrUnknownType, "type", ref.Name)
		}
		base = ref.Name
	}
	if ref.Array {
		return base + "[]", nil
	}
	return base, nil
}

// pascal converts an operation or type name to PascalCase.
func pascal(name string) string {
	return inflect.Camelize(name)
}

// camel converts a name to lowerCamelCase.
func camel(name string) string {
	p := pascal(name)
	if p == "" {
		return p
	}
	runes := []rune(p)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// render executes a named template into a string.
func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", zerr.Wrap(err, domain.ErrTemplateRender.Error())
	}
	return sb.String(), nil
}

// writeArtifact writes rendered content under the staging directory,
// creating intermediate directories as needed.
func writeArtifact(stageDir, rel, content string) error {
	path := filepath.Join(stageDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create artifact directory")
	}
	//nolint:gosec // Path is constructed from the staging root and generator-owned names
	if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write artifact")
	}
	return nil
}

// payloadNames returns the request/response reference of an operation
// that point at declared (non-primitive) types.
func payloadNames(schema *domain.Schema, op domain.Operation) []string {
	var names []string
	for _, ref := range []domain.TypeRef{op.Request, op.Response} {
		if ref.IsZero() {
			continue
		}
		if _, ok := schema.Types[ref.Name]; ok {
			names = append(names, ref.Name)
		}
	}
	return names
}
