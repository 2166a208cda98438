// Package mailer renders the digest newsletter and delivers it, either over
// SMTP or to a local file for dry runs and previews.
package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"techwatch/internal/domain/entity"
)

// newsletterTemplate is the single-file HTML layout of the digest. All
// dynamic values pass through html/template's contextual escaping, so feed
// titles and model-generated summaries can never inject markup.
const newsletterTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; color: #1a1a1a; max-width: 720px; margin: 0 auto; padding: 16px; }
h1 { font-size: 22px; border-bottom: 2px solid #2c5aa0; padding-bottom: 8px; }
h2 { font-size: 18px; color: #2c5aa0; margin-top: 28px; }
p.generated { color: #777777; font-size: 12px; }
p.summary { background: #f4f6fa; border-left: 3px solid #2c5aa0; padding: 8px 12px; font-style: italic; }
ul { padding-left: 20px; }
li { margin-bottom: 14px; }
a { color: #2c5aa0; text-decoration: none; }
span.meta { color: #777777; font-size: 12px; }
p.footer { color: #777777; font-size: 12px; margin-top: 32px; border-top: 1px solid #dddddd; padding-top: 8px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">Generated {{.GeneratedAt.Format "Monday, January 2, 2006 at 15:04 MST"}}</p>
{{- range .Groups}}
<h2>{{.Category}} ({{len .Articles}})</h2>
{{- with .Summary}}
<p class="summary">{{.}}</p>
{{- end}}
<ul>
{{- range .Articles}}
<li>
<a href="{{.Link}}">{{.Title}}</a>
{{- with .Description}}
<br>{{.}}
{{- end}}
<br><span class="meta">{{.Source}}{{if not .PublishedAt.IsZero}} &middot; {{.PublishedAt.Format "Jan 2, 2006"}}{{end}}</span>
</li>
{{- end}}
</ul>
{{- end}}
{{- if not .Groups}}
<p>No new articles this time.</p>
{{- end}}
<p class="footer">This digest was generated automatically from your configured feeds.</p>
</body>
</html>
`

var newsletterTmpl = template.Must(template.New("newsletter").Parse(newsletterTemplate))

// newsletterData is the template input.
type newsletterData struct {
	Title       string
	GeneratedAt time.Time
	Groups      []entity.CategoryGroup
}

// digestTitle is the newsletter heading and subject stem.
const digestTitle = "Tech Watch Digest"

// Subject builds the email subject line for a digest generated at t.
func Subject(t time.Time) string {
	return fmt.Sprintf("%s - %s", digestTitle, t.Format("January 2, 2006"))
}

// RenderHTML renders the digest newsletter for the given category groups.
func RenderHTML(groups []entity.CategoryGroup, generatedAt time.Time) (string, error) {
	var b strings.Builder
	err := newsletterTmpl.Execute(&b, newsletterData{
		Title:       digestTitle,
		GeneratedAt: generatedAt,
		Groups:      groups,
	})
	if err != nil {
		return "", fmt.Errorf("render newsletter: %w", err)
	}
	return b.String(), nil
}
