// Package report renders a stored run as Markdown, and the Markdown as HTML
// with goldmark.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/unclip/internal/run"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

var runTemplate = template.Must(template.New("run").Funcs(template.FuncMap{
	"formatTime":  formatTime,
	"formatChars": formatChars,
	"countChars":  run.CountChars,
	"cell":        cell,
	"fenced":      fenced,
	"deref":       deref,
}).Parse(`# Expansion run {{.ID}}

| Field | Value |
|---|---|
| Created | {{formatTime .CreatedAt}} |
{{- if .Source}}
| Source | {{cell (deref .Source)}} |
{{- end}}
| Requested method | {{.RequestedMethod}} |
| Method | {{if .Method}}{{.Method}}{{else}}none{{end}} |
| Characters | {{formatChars (countChars .OriginalText)}} |
| Replacements | {{formatChars .ReplacementCount}} |

## Replacements
{{if .Replacements}}
| Form | Count |
|---|---|
{{- range .Replacements}}
| {{cell .Original}} | {{.Count}} |
{{- end}}
{{else}}
No contractions were expanded.
{{end}}
## Original

{{fenced .OriginalText}}

## Expanded

{{fenced .ExpandedText}}
`))

// Markdown renders r as a Markdown document.
func Markdown(r *run.Run) (string, error) {
	var buf bytes.Buffer
	if err := runTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// HTML converts Markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert report: %w", err)
	}
	return buf.String(), nil
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04 UTC".
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04") + " UTC"
}

// formatChars formats an integer with comma thousands separators.
func formatChars(n int) string {
	if n < 0 {
		return "-" + formatChars(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// cell makes s safe inside a table cell: pipes escaped, line breaks flattened.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// fenced wraps s in a code fence longer than any backtick run inside it.
func fenced(s string) string {
	longest, cur := 0, 0
	for _, r := range s {
		if r == '`' {
			cur++
			longest = max(longest, cur)
			continue
		}
		cur = 0
	}
	fence := strings.Repeat("`", max(3, longest+1))
	return fence + "text\n" + strings.TrimRight(s, "\n") + "\n" + fence
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
