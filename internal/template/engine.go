// Package template renders batch conversion output using Go's text/template
// with custom functions. A definition has an optional header, a required
// per-line template and an optional footer.
package template

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"
)

// Definition is the configured text of an output template
type Definition struct {
	Header string `toml:"header"`
	Line   string `toml:"line"`
	Footer string `toml:"footer"`
}

// IsZero reports whether no template text was configured
func (d Definition) IsZero() bool {
	return d.Header == "" && d.Line == "" && d.Footer == ""
}

// BatchData is passed to the header and footer. Counts are zero in the header.
type BatchData struct {
	Source    string
	Target    string
	Pattern   string
	Total     int
	Converted int
	Failed    int
	Skipped   int
}

// LineData is passed to the line template for every converted date
type LineData struct {
	Index  int // 1-based count of converted dates
	Line   int // line number in the input
	Input  string
	Output string
	Source string
	Target string
}

// OutputTemplate is a parsed Definition
type OutputTemplate struct {
	name string
	tmpl *template.Template
}

// funcMap returns the helpers available to every template. sep yields the
// batch separator so separators never pass through the template parser.
func funcMap(separator string) template.FuncMap {
	return template.FuncMap{
		"repeat": strings.Repeat,
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"printf": fmt.Sprintf,
		"sep":    func() string { return separator },
		"pad": func(n int, s string) string {
			if n <= len([]rune(s)) {
				return s
			}
			return s + strings.Repeat(" ", n-len([]rune(s)))
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// Parse compiles def. separator is what the sep function returns.
func Parse(name string, def Definition, separator string) (*OutputTemplate, error) {
	if def.Line == "" {
		return nil, fmt.Errorf("template %s: line template is required", name)
	}

	var text strings.Builder
	if def.Header != "" {
		text.WriteString(`{{define "header"}}` + def.Header + `{{end}}`)
	}
	text.WriteString(`{{define "line"}}` + def.Line + `{{end}}`)
	if def.Footer != "" {
		text.WriteString(`{{define "footer"}}` + def.Footer + `{{end}}`)
	}

	tmpl, err := template.New(name).Funcs(funcMap(separator)).Option("missingkey=error").Parse(text.String())
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &OutputTemplate{name: name, tmpl: tmpl}, nil
}

// Separated is the default output: input, separator, output.
func Separated(separator string) *OutputTemplate {
	out, err := Parse("separated", Definition{Line: "{{.Input}}{{sep}}{{.Output}}"}, separator)
	if err != nil {
		// AIDEV-NOTE: The definition is constant; a failure is a programming error
		panic(err)
	}
	return out
}

// Name returns the template name given to Parse
func (o *OutputTemplate) Name() string {
	return o.name
}

// Header writes the header, if defined
func (o *OutputTemplate) Header(w io.Writer, data BatchData) error {
	return o.execute(w, "header", data)
}

// Line writes one converted date
func (o *OutputTemplate) Line(w io.Writer, data LineData) error {
	return o.execute(w, "line", data)
}

// Footer writes the footer, if defined
func (o *OutputTemplate) Footer(w io.Writer, data BatchData) error {
	return o.execute(w, "footer", data)
}

// execute renders one section and terminates it with a newline
func (o *OutputTemplate) execute(w io.Writer, section string, data any) error {
	if o.tmpl.Lookup(section) == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := o.tmpl.ExecuteTemplate(&buf, section, data); err != nil {
		return fmt.Errorf("executing %s template: %w", section, err)
	}
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate executes every section against sample data, catching references
// to fields that do not exist.
func (o *OutputTemplate) Validate() error {
	batch := BatchData{
		Source:    "Gregorian",
		Target:    "Persian",
		Pattern:   "yyyy/MM/dd",
		Total:     1,
		Converted: 1,
	}
	line := LineData{
		Index:  1,
		Line:   1,
		Input:  "2023-03-21",
		Output: "1402/01/01",
		Source: "Gregorian",
		Target: "Persian",
	}

	if err := o.Header(io.Discard, batch); err != nil {
		return err
	}
	if err := o.Line(io.Discard, line); err != nil {
		return err
	}
	return o.Footer(io.Discard, batch)
}
