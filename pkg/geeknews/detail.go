package geeknews

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-geeknews/pkg/extract"
)

// 詳細ページのフィールドごとの抽出表
var (
	detailTitle = extract.Chain{
		{Selector: "div.topic-table div.topictitle.link h1", Extract: extract.Text},
		{Selector: "title", Extract: extract.TrimSuffix(extract.Text, titleSuffix)},
	}
	detailContentHTML = extract.Chain{
		{Selector: "span#topic_contents", Extract: extract.InnerHTML},
	}
	detailContentText = extract.Chain{
		{Selector: "span#topic_contents", Extract: extract.BlockText},
	}
	// 空の href は属性が無い場合と同じく nil (JSON では null) になる
	detailSourceURL = extract.Chain{
		{Selector: "div.topictitle.link > a.bold.ud", Extract: extract.Attr("href")},
	}
	detailAuthor = extract.Chain{
		{Selector: "div.topic-table div.topicinfo a[href^='/user?id=']", Extract: extract.Text},
	}
	detailTimeAgo = extract.Chain{
		{Selector: "div.topic-table div.topicinfo span[title]", Extract: extract.Text},
	}
)

const (
	commentThreadSelector = "div#comment_thread"
	commentRowSelector    = "div.comment_row"
)

// TopicURL は記事詳細ページのURLを組み立てます。
func TopicURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + topicPath + url.QueryEscape(id)
}

// ParseDetail は詳細ページのマークアップから記事を抽出します。
// すべてのフィールドは既定値を持つため、ツリーが構築できる限り失敗しません。
func ParseDetail(markup []byte, id, origin string) (ArticleDetail, error) {
	doc, err := extract.Parse(markup)
	if err != nil {
		return ArticleDetail{}, err
	}
	return extractDetail(doc.Selection, id, origin), nil
}

func extractDetail(root *goquery.Selection, id, origin string) ArticleDetail {
	article := ArticleDetail{
		ID:            id,
		PageURL:       TopicURL(origin, id),
		Title:         detailTitle.ResolveOr(root, NotAvailable),
		ContentHTML:   detailContentHTML.ResolveOr(root, ""),
		ContentText:   detailContentText.ResolveOr(root, ""),
		Author:        detailAuthor.ResolveOr(root, NotAvailable),
		TimeAgo:       detailTimeAgo.ResolveOr(root, NotAvailable),
		Points:        leadingCount(pointsChain(id).ResolveOr(root, "")),
		CommentsCount: countComments(root),
	}
	if href, ok := detailSourceURL.Resolve(root); ok {
		abs := absoluteURL(origin, href)
		article.OriginalSourceURL = &abs
	}
	return article
}

// pointsChain は記事IDから組み立てた要素ID (tp<id>) で得点の span を探します。
func pointsChain(id string) extract.Chain {
	return extract.Chain{
		{Selector: "span[id]", Match: extract.AttrEquals("id", pointsIDPrefix+id), Extract: extract.Text},
	}
}

func countComments(root *goquery.Selection) int {
	thread := root.Find(commentThreadSelector).First()
	if thread.Length() == 0 {
		return 0
	}
	return extract.Count(thread, commentRowSelector)
}
