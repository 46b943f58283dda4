package geeknews

import "encoding/json"

// Status はエンベロープの種別タグです。
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// エンベロープの失敗メッセージの接頭辞
const (
	listErrorPrefix   = "Failed to fetch GeekNews articles: "
	detailErrorPrefix = "Failed to fetch GeekNews article content: "
	feedErrorPrefix   = "Failed to fetch GeekNews feed: "
)

// ListResult は一覧パイプラインの結果です。
// Status が success の場合は Articles、error の場合は Message と Err が有効です。
type ListResult struct {
	Status   Status
	Page     int
	Articles []ArticleSummary
	Message  string
	Err      error
}

// OK は成功エンベロープかどうかを返します。
func (r ListResult) OK() bool { return r.Status == StatusSuccess }

// MarshalJSON は種別ごとに決まったキーだけを出力します。
func (r ListResult) MarshalJSON() ([]byte, error) {
	if r.OK() {
		articles := r.Articles
		if articles == nil {
			articles = []ArticleSummary{}
		}
		return json.Marshal(struct {
			Status   Status           `json:"status"`
			Page     int              `json:"page"`
			Articles []ArticleSummary `json:"articles"`
		}{r.Status, r.Page, articles})
	}
	return json.Marshal(struct {
		Status  Status `json:"status"`
		Message string `json:"message"`
		Page    int    `json:"page"`
	}{StatusError, r.Message, r.Page})
}

func listSuccess(page int, articles []ArticleSummary) ListResult {
	return ListResult{Status: StatusSuccess, Page: page, Articles: articles}
}

func listFailure(page int, err error) ListResult {
	return ListResult{Status: StatusError, Page: page, Message: listErrorPrefix + err.Error(), Err: err}
}

// DetailResult は詳細パイプラインの結果です。
// ID と PageURL は成功・失敗どちらの場合も設定されます。
type DetailResult struct {
	Status  Status
	ID      string
	PageURL string
	Article *ArticleDetail
	Message string
	Err     error
}

// OK は成功エンベロープかどうかを返します。
func (r DetailResult) OK() bool { return r.Status == StatusSuccess && r.Article != nil }

// MarshalJSON は成功時は記事のフィールドを平坦化して出力します。
func (r DetailResult) MarshalJSON() ([]byte, error) {
	if r.OK() {
		return json.Marshal(struct {
			Status Status `json:"status"`
			*ArticleDetail
		}{r.Status, r.Article})
	}
	return json.Marshal(struct {
		Status  Status `json:"status"`
		Message string `json:"message"`
		ID      string `json:"id"`
		PageURL string `json:"page_url"`
	}{StatusError, r.Message, r.ID, r.PageURL})
}

func detailSuccess(article ArticleDetail) DetailResult {
	return DetailResult{Status: StatusSuccess, ID: article.ID, PageURL: article.PageURL, Article: &article}
}

func detailFailure(id, pageURL string, err error) DetailResult {
	return DetailResult{Status: StatusError, ID: id, PageURL: pageURL, Message: detailErrorPrefix + err.Error(), Err: err}
}

// FeedResult はフィードパイプラインの結果です。
type FeedResult struct {
	Status  Status
	Entries []FeedEntry
	Message string
	Err     error
}

// OK は成功エンベロープかどうかを返します。
func (r FeedResult) OK() bool { return r.Status == StatusSuccess }

// MarshalJSON は種別ごとに決まったキーだけを出力します。
func (r FeedResult) MarshalJSON() ([]byte, error) {
	if r.OK() {
		entries := r.Entries
		if entries == nil {
			entries = []FeedEntry{}
		}
		return json.Marshal(struct {
			Status   Status      `json:"status"`
			Articles []FeedEntry `json:"articles"`
		}{r.Status, entries})
	}
	return json.Marshal(struct {
		Status  Status `json:"status"`
		Message string `json:"message"`
	}{StatusError, r.Message})
}
