// Package templates renders the notification emails embedded in the binary.
// Every template ships as a pair: <name>.html and <name>.txt.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Renderer executes the embedded template pairs.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates and checks that every HTML
// template has a plain text counterpart.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}

	for _, t := range html.Templates() {
		name := t.Name()
		base := name[:len(name)-len(".html")]
		if text.Lookup(base+".txt") == nil {
			return nil, fmt.Errorf("template %s has no text variant", base)
		}
	}
	return &Renderer{html: html, text: text}, nil
}

// Has reports whether a template pair with the given name exists.
func (r *Renderer) Has(name string) bool {
	return r.html.Lookup(name+".html") != nil
}

// Render executes both variants of the named template against data.
func (r *Renderer) Render(name string, data any) (string, string, error) {
	if !r.Has(name) {
		return "", "", fmt.Errorf("unknown template %q", name)
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s.html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("render %s.txt: %w", name, err)
	}
	return html.String(), text.String(), nil
}

// ShieldStatusChangedData feeds the shield_status_changed template.
type ShieldStatusChangedData struct {
	UserName       string
	PreviousStatus string
	CurrentStatus  string
	Total          string
	Target         string
	Optimal        string
	MonthsCovered  string
	Shortfall      string
	DashboardURL   string
}

var statusRank = map[string]int{"at_risk": 0, "partial": 1, "safe": 2}

// StatusLabel returns a readable label for a status value.
func (d ShieldStatusChangedData) StatusLabel(status string) string {
	switch status {
	case "at_risk":
		return "At risk"
	case "partial":
		return "Partially protected"
	case "safe":
		return "Safe"
	}
	return status
}

// Improved reports whether the status moved towards safe.
func (d ShieldStatusChangedData) Improved() bool {
	return statusRank[d.CurrentStatus] > statusRank[d.PreviousStatus]
}
