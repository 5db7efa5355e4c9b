package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
	"github.com/aman-yadav7052/hari-pathology/internal/format"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcMap = template.FuncMap{
	"rupees": format.Rupees,
	"join":   strings.Join,
	"add":    func(a, b int) int { return a + b },
	"inc":    func(i int) int { return i + 1 },
	"f1":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"selectOf": func(opts []catalog.Option, oob bool) TestSelect {
		return TestSelect{Options: opts, OOB: oob}
	},
	// css trusts badge colours, which come from the compiled category table.
	"css": func(s string) template.CSS { return template.CSS(s) },
	// ldjson trusts structured data built by seo.JSON, whose encoder
	// escapes <, > and &.
	"ldjson": func(s string) template.JS { return template.JS(s) },
}

// ParseTemplates parses the embedded page and fragment templates.
func ParseTemplates() (*template.Template, error) {
	return template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
}

// render executes the named template through templ so pages and fragments
// share one rendering path.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	t := h.templates.Lookup(name)
	if t == nil {
		observability.FromContext(r.Context()).Error("template missing", zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	opts := []func(*templ.ComponentHandler){
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			observability.FromContext(r.Context()).Error("template exec failed", zap.String("template", name), zap.Error(err))
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	}
	if status != 0 && status != http.StatusOK {
		opts = append(opts, templ.WithStatus(status))
	}
	templ.Handler(templ.FromGoHTML(t, data), opts...).ServeHTTP(w, r)
}

func setTrigger(w http.ResponseWriter, payload map[string]any) {
	if raw, err := json.Marshal(payload); err == nil {
		w.Header().Set("HX-Trigger", string(raw))
	}
}
