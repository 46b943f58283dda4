// Package render は、パイプラインのエンベロープを JSON または Markdown として出力します。
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/shouni/go-geeknews/pkg/geeknews"
)

// Format は出力形式です。
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat は文字列を Format に変換します。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("未対応の出力形式です: %q (json または markdown)", s)
	}
}

// Renderer はエンベロープを指定の形式で書き出します。
type Renderer struct {
	format    Format
	converter *md.Converter
}

// New は Renderer を生成します。
func New(format Format) *Renderer {
	return &Renderer{
		format:    format,
		converter: md.NewConverter("", true, nil),
	}
}

// Write は v を w に書き出します。
// v は geeknews.ListResult, geeknews.DetailResult, []geeknews.DetailResult, geeknews.FeedResult のいずれかです。
func (r *Renderer) Write(w io.Writer, v any) error {
	if r.format != FormatMarkdown {
		return writeJSON(w, v)
	}

	var out string
	switch res := v.(type) {
	case geeknews.ListResult:
		out = r.listMarkdown(res)
	case geeknews.DetailResult:
		out = r.detailMarkdown(res)
	case []geeknews.DetailResult:
		parts := make([]string, 0, len(res))
		for _, d := range res {
			parts = append(parts, r.detailMarkdown(d))
		}
		out = strings.Join(parts, "\n---\n\n")
	case geeknews.FeedResult:
		out = r.feedMarkdown(res)
	default:
		return fmt.Errorf("Markdown出力に未対応の型です: %T", v)
	}

	_, err := io.WriteString(w, out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSONエンコードに失敗しました: %w", err)
	}
	return nil
}

func errorMarkdown(message string) string {
	return fmt.Sprintf("**error**: %s\n", message)
}

func (r *Renderer) listMarkdown(res geeknews.ListResult) string {
	if !res.OK() {
		return errorMarkdown(res.Message)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# GeekNews page %d\n\n", res.Page)
	for i, a := range res.Articles {
		title := a.Title
		if a.OriginalSourceURL != "" {
			title = fmt.Sprintf("[%s](%s)", a.Title, a.OriginalSourceURL)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		fmt.Fprintf(&b, "   %d points by %s %s | %d comments | id %s\n", a.Points, a.Author, a.TimeAgo, a.CommentsCount, a.ID)
		if a.Description != "" {
			fmt.Fprintf(&b, "   %s\n", a.Description)
		}
	}
	return b.String()
}

func (r *Renderer) detailMarkdown(res geeknews.DetailResult) string {
	if !res.OK() {
		return errorMarkdown(fmt.Sprintf("%s (id %s)", res.Message, res.ID))
	}
	a := res.Article

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	fmt.Fprintf(&b, "- id: %s\n", a.ID)
	fmt.Fprintf(&b, "- page: %s\n", a.PageURL)
	if a.OriginalSourceURL != nil {
		fmt.Fprintf(&b, "- source: %s\n", *a.OriginalSourceURL)
	}
	fmt.Fprintf(&b, "- author: %s\n", a.Author)
	fmt.Fprintf(&b, "- points: %d\n", a.Points)
	fmt.Fprintf(&b, "- posted: %s\n", a.TimeAgo)
	fmt.Fprintf(&b, "- comments: %d\n", a.CommentsCount)

	if body := r.contentMarkdown(a); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

// contentMarkdown は本文のHTMLを Markdown に変換します。変換できない場合はプレーンテキストを使います。
func (r *Renderer) contentMarkdown(a *geeknews.ArticleDetail) string {
	if a.ContentHTML == "" {
		return a.ContentText
	}
	converted, err := r.converter.ConvertString(a.ContentHTML)
	if err != nil || strings.TrimSpace(converted) == "" {
		return a.ContentText
	}
	return strings.TrimSpace(converted)
}

func (r *Renderer) feedMarkdown(res geeknews.FeedResult) string {
	if !res.OK() {
		return errorMarkdown(res.Message)
	}

	var b strings.Builder
	b.WriteString("# GeekNews feed\n\n")
	for _, e := range res.Entries {
		fmt.Fprintf(&b, "- [%s](%s)", e.Title, e.PageURL)
		if e.Author != "" {
			fmt.Fprintf(&b, " by %s", e.Author)
		}
		if e.Published != "" {
			fmt.Fprintf(&b, " (%s)", e.Published)
		}
		b.WriteString("\n")
	}
	return b.String()
}
