// Package extract は、HTMLドキュメントツリーに対する宣言的なノード検索を提供します。
//
// フィールドごとに (セレクター, 抽出関数) の順序付きリストを Chain として定義し、
// Resolve が先頭から順に試して、最初に空でない値を返した戦略を採用します。
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse は生のマークアップから goquery.Document を構築します。
// 不正なマークアップでも可能な限りツリーを構築し、失敗するのは読み込みエラー時のみです。
func Parse(markup []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return doc, nil
}

// directTextNodes は要素直下のテキストノードのみを返します (子要素内のテキストは除外)。
func directTextNodes(s *goquery.Selection) []string {
	var texts []string
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				texts = append(texts, c.Data)
			}
		}
	}
	return texts
}

// blockText は子孫のテキストノードをトリムし、空のものを除いて改行で連結します。
func blockText(s *goquery.Selection) string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return strings.Join(lines, "\n")
}
