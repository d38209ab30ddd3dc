package api

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

var resultTemplate = template.Must(template.ParseFS(templatesFS, "templates/result.html"))

// resultView is rendered by templates/result.html.
type resultView struct {
	Rankings []Entry
	Error    string
}

func renderResult(w http.ResponseWriter, status int, v resultView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = resultTemplate.Execute(w, v)
}
