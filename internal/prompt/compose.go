package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Variant selects one of the built-in instruction templates.
type Variant string

const (
	// VariantStructured demands explicit ROLE:/TASK:/... headings in the result.
	VariantStructured Variant = "structured"
	// VariantClassic is the looser parameter-list wording.
	VariantClassic Variant = "classic"
)

var builtin = mustLoadBuiltin()

func mustLoadBuiltin() map[Variant]*template.Template {
	m := make(map[Variant]*template.Template, 2)
	for _, v := range []Variant{VariantStructured, VariantClassic} {
		name := string(v) + ".tmpl"
		m[v] = template.Must(template.New(name).
			Funcs(sprig.TxtFuncMap()).
			ParseFS(templateFS, "templates/"+name))
	}
	return m
}

// Composer renders Requests into instruction text.
type Composer struct {
	tmpl     *template.Template
	fallback *template.Template
}

// NewComposer returns a Composer for the given built-in variant. When custom is
// non-empty it is used instead; it is parsed and trial-rendered here so that a
// broken template fails at startup rather than on a user's request.
func NewComposer(variant Variant, custom string) (*Composer, error) {
	base, ok := builtin[variant]
	if !ok {
		return nil, fmt.Errorf("unknown prompt variant %q", variant)
	}
	c := &Composer{tmpl: base, fallback: base}
	if custom == "" {
		return c, nil
	}

	tmpl, err := template.New("custom").Funcs(sprig.TxtFuncMap()).Parse(custom)
	if err != nil {
		return nil, fmt.Errorf("parse custom prompt template: %w", err)
	}
	if err := tmpl.Execute(&bytes.Buffer{}, Default()); err != nil {
		return nil, fmt.Errorf("render custom prompt template: %w", err)
	}
	c.tmpl = tmpl
	return c, nil
}

var defaultComposer = &Composer{tmpl: builtin[VariantStructured], fallback: builtin[VariantStructured]}

// Compose renders req with the structured built-in template.
func Compose(req Request) string { return defaultComposer.Compose(req) }

// Compose renders req into the instruction text. It performs no validation and
// never fails: if a custom template errors at execution time the built-in
// variant is used instead.
func (c *Composer) Compose(req Request) string {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, req); err != nil {
		buf.Reset()
		// Built-in templates only read plain string fields.
		_ = c.fallback.Execute(&buf, req)
	}
	return strings.TrimSpace(buf.String())
}
