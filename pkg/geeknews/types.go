package geeknews

// ArticleSummary は一覧ページの1行分の記事です。
type ArticleSummary struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	OriginalSourceURL string `json:"original_source_url"`
	Description       string `json:"description"`
	Points            int    `json:"points"`
	Author            string `json:"author"`
	TimeAgo           string `json:"time_ago"`
	CommentsCount     int    `json:"comments_count"`
}

// ArticleDetail は記事詳細ページから抽出した記事です。
// OriginalSourceURL は外部リンクが無い場合 nil (JSON では null) になります。
type ArticleDetail struct {
	ID                string  `json:"id"`
	PageURL           string  `json:"page_url"`
	Title             string  `json:"title"`
	ContentHTML       string  `json:"content_html"`
	ContentText       string  `json:"content_text"`
	OriginalSourceURL *string `json:"original_source_url"`
	Author            string  `json:"author"`
	Points            int     `json:"points"`
	TimeAgo           string  `json:"time_ago"`
	CommentsCount     int     `json:"comments_count"`
}

// FeedEntry は RSS/Atom フィードの1エントリです。
type FeedEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PageURL   string `json:"page_url"`
	Author    string `json:"author"`
	Published string `json:"published"`
}
