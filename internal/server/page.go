package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	perrors "github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/pipeline"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Package popularity</title>
<style>
body { font-family: sans-serif; margin: 2em; }
figure { margin: 0 0 2em 0; }
.missing { color: #888; }
</style>
</head>
<body>
<h1>Package popularity</h1>
<figure>
<img src="graph.png?{{.Query}}" alt="popularity chart">
<figcaption>Rendered locally</figcaption>
</figure>
<figure>
{{if .RemoteURL}}<img src="{{.RemoteURL}}" alt="popularity chart (remote)">{{else}}<p class="missing">{{.RemoteError}}</p>{{end}}
<figcaption>Rendered by the remote chart service</figcaption>
</figure>
</body>
</html>
`))

type pageData struct {
	Query       template.URL
	RemoteURL   template.URL
	RemoteError string
}

// handlePage serves the page shell. The remote chart URL is computed here;
// the raster image is fetched by the browser.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	for _, k := range []string{"size", "percent"} {
		if v := r.URL.Query().Get(k); v != "" {
			q.Set(k, v)
		}
	}
	data := pageData{Query: template.URL(q.Encode())}

	if result, err := s.render(r, pipeline.FormatURL); err == nil {
		data.RemoteURL = template.URL(result.Artifact)
	} else {
		data.RemoteError = "Remote chart unavailable: " + perrors.UserMessage(err)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
