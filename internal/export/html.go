// Package export renders saved reports as standalone HTML documents.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/naka-gawa/myimpact/internal/domain"
)

// Raw HTML in summaries passes through goldmark and is filtered by the UGC policy.
var (
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
	page          = template.Must(template.New("report").Parse(pageTemplate))
)

// RenderMarkdown converts markdown to HTML and sanitizes the result.
func RenderMarkdown(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

type pageData struct {
	Report  domain.SavedReport
	Summary template.HTML
}

// WriteHTML writes report as an HTML page to w.
func WriteHTML(w io.Writer, report domain.SavedReport) error {
	summary, err := RenderMarkdown(report.Summary)
	if err != nil {
		return fmt.Errorf("failed to render report %q: %w", report.ID, err)
	}
	// RenderMarkdown output is sanitized.
	data := pageData{Report: report, Summary: template.HTML(summary)}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report %q: %w", report.ID, err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Report.Name}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 820px; margin: 2rem auto; line-height: 1.5; color: #1f2328; }
header p { color: #59636e; margin: 0.2rem 0; }
ul.prs li { margin-bottom: 0.4rem; }
</style>
</head>
<body>
<header>
<h1>{{.Report.Name}}</h1>
<p>{{.Report.OrgName}} &middot; {{.Report.DateRange}}</p>
<p>{{.Report.PRCount}} pull requests &middot; created {{.Report.CreatedAt}}</p>
</header>
<section class="summary">
{{.Summary}}
</section>
{{if .Report.PullRequests}}<section>
<h2>Pull requests</h2>
<ul class="prs">
{{range .Report.PullRequests}}<li><a href="{{.URL}}">{{.Title}}</a> <small>{{.Repository.NameWithOwner}} &middot; merged {{.ClosedAt}}</small></li>
{{end}}</ul>
</section>{{end}}
</body>
</html>
`
