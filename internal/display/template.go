package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// Template is a parsed user-facing message.
type Template struct {
	src  string
	tmpl *template.Template
}

// ParseTemplate parses a message template. Templates access fields of the data
// passed to Expand via {{ .FieldName }} and may use any sprig function.
func ParseTemplate(src string) (*Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", src, err)
	}
	return &Template{src: src, tmpl: tmpl}, nil
}

// MustParseTemplate is ParseTemplate for templates known at compile time.
func MustParseTemplate(src string) *Template {
	t, err := ParseTemplate(src)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) String() string {
	return t.src
}

// Expand renders the template. A template without markers is returned as-is.
func (t *Template) Expand(data any) (string, error) {
	if !strings.Contains(t.src, "{{") {
		return t.src, nil
	}

	var buf bytes.Buffer
	err := t.tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
