package geeknews

import "regexp"

// サイト固有の文字列はすべてここに集約します。
// マークアップが変わった場合は、この定数とセレクター表の更新だけで追従します。
const (
	// DefaultOrigin は GeekNews のベースURLです。
	DefaultOrigin = "https://news.hada.io"

	DefaultPage = 1

	listPath    = "/?page="
	topicPath   = "/topic?id="
	feedPath    = "/rss/news"
	titleSuffix = "| GeekNews"

	voteIDPrefix   = "vote"
	pointsIDPrefix = "tp"

	// NotAvailable は詳細ページで解決できなかった文字列フィールドの既定値です。
	NotAvailable = "N/A"
)

var (
	voteIDPattern = regexp.MustCompile(`^vote\d+$`)
	digitsPattern = regexp.MustCompile(`\d+`)
	strictDigits  = regexp.MustCompile(`^\d+$`)
)
