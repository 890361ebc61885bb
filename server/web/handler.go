package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gear6io/tableserve/pkg/errors"
	"github.com/gear6io/tableserve/server/database"
)

// The page layout is fixed: a header row from the result columns, then one
// table row per result row, in query-result order. Autoescaping covers any
// HTML-significant cell values.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Table}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.4em 0.8em; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{.Table}}</h1>
<table>
<tr>{{range .RowSet.Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .RowSet.Rows}}<tr>{{range .}}<td>{{if .Valid}}{{.Value}}{{end}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// handleRoot answers GET / with the rendered contents of the configured
// table. Any failure surfaces as a plain 500; there is no retry and no
// structured error body.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rowSet, err := s.source.FetchRows(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Str("code", errors.GetCode(err)).Msg("Failed to fetch rows")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Render into a buffer first so template failures become a clean 500
	// instead of a truncated page.
	var buf bytes.Buffer
	data := struct {
		Table  string
		RowSet *database.RowSet
	}{
		Table:  s.cfg.GetTable(),
		RowSet: rowSet,
	}
	if err := page.Execute(&buf, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
