package http

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yanqian/faq-assistant/internal/domain/assistant"
	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

const pageTitle = "Mumbai FAQ Assistant"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Title    string
	Entries  []faq.Entry
	Question string
	Result   *pageResult
}

type pageResult struct {
	Answer          template.HTML
	MatchedQuestion string
	NotFound        bool
}

// answerRenderer turns stored markdown answers into HTML. Raw HTML in the
// source is escaped by goldmark's default renderer.
type answerRenderer struct {
	md goldmark.Markdown
}

func newAnswerRenderer() *answerRenderer {
	return &answerRenderer{md: goldmark.New(goldmark.WithExtensions(extension.Linkify))}
}

func (r *answerRenderer) render(resp assistant.Response) *pageResult {
	result := &pageResult{
		MatchedQuestion: resp.MatchedQuestion,
		NotFound:        resp.Outcome == assistant.OutcomeNotFound,
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(resp.Answer), &buf); err != nil {
		result.Answer = template.HTML(template.HTMLEscapeString(resp.Answer))
		return result
	}
	result.Answer = template.HTML(buf.String())
	return result
}
