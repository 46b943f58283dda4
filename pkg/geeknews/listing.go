package geeknews

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-geeknews/pkg/extract"
)

const listingRowSelector = "div.topic_row"

// 一覧ページのフィールドごとの抽出表
var (
	summaryID = extract.Chain{
		{Selector: "span[id]", Match: extract.AttrMatches("id", voteIDPattern), Extract: extract.Attr("id")},
	}
	summaryTitle = extract.Chain{
		{Selector: "div.topictitle h1", Extract: extract.Text},
	}
	summarySourceURL = extract.Chain{
		{Selector: "div.topictitle a", Extract: extract.Attr("href")},
	}
	summaryDescription = extract.Chain{
		{Selector: "div.topicdesc", Extract: extract.Map(extract.Text, textUtils.NormalizeText)},
	}
	summaryPoints = extract.Chain{
		{Selector: "div.topicinfo span", Extract: extract.Text},
	}
	summaryAuthor = extract.Chain{
		{Selector: "div.topicinfo a", Extract: extract.Text},
	}
	summaryTimeAgo = extract.Chain{
		{Selector: "div.topicinfo", Extract: extract.OwnText(1)},
	}
	summaryComments = extract.Chain{
		{Selector: "div.topicinfo a.u", Extract: extract.Text},
	}
)

// ListURL は一覧ページのURLを組み立てます。
func ListURL(origin string, page int) string {
	return fmt.Sprintf("%s%s%d", strings.TrimRight(origin, "/"), listPath, page)
}

// ParseListing は一覧ページのマークアップから記事一覧を抽出します。
// id と points は必須フィールドで、1行でも欠けていればページ全体を失敗として扱います。
// それ以外のフィールドは既定値で補完されます。
func ParseListing(markup []byte) ([]ArticleSummary, error) {
	doc, err := extract.Parse(markup)
	if err != nil {
		return nil, err
	}
	return extractListing(doc.Selection)
}

func extractListing(root *goquery.Selection) ([]ArticleSummary, error) {
	rows := root.Find(listingRowSelector)
	articles := make([]ArticleSummary, 0, rows.Length())

	var rowErr error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		article, err := extractSummary(i, row)
		if err != nil {
			rowErr = err
			return false
		}
		articles = append(articles, article)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return articles, nil
}

// extractSummary は1行分の記事を抽出します。
func extractSummary(i int, row *goquery.Selection) (ArticleSummary, error) {
	rawID, ok := summaryID.Resolve(row)
	if !ok {
		return ArticleSummary{}, &RowError{Row: i, Field: "id", Err: ErrStructuralMismatch}
	}

	rawPoints, ok := summaryPoints.Resolve(row)
	if !ok {
		return ArticleSummary{}, &RowError{Row: i, Field: "points", Err: ErrStructuralMismatch}
	}
	points, err := parseStrictCount(rawPoints)
	if err != nil {
		return ArticleSummary{}, &RowError{Row: i, Field: "points", Err: err}
	}

	comments, _ := summaryComments.Resolve(row)

	return ArticleSummary{
		ID:                strings.TrimPrefix(rawID, voteIDPrefix),
		Title:             summaryTitle.ResolveOr(row, ""),
		OriginalSourceURL: summarySourceURL.ResolveOr(row, ""),
		Description:       summaryDescription.ResolveOr(row, ""),
		Points:            points,
		Author:            summaryAuthor.ResolveOr(row, ""),
		TimeAgo:           summaryTimeAgo.ResolveOr(row, ""),
		CommentsCount:     leadingCount(comments),
	}, nil
}
