package geeknews

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher は、URLから生のバイト配列を取得する機能のインターフェースです。
// httpclient.New が返す *httpkit.Client がこれを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Client は GeekNews の各パイプラインを提供します。
// 状態を持たないため、複数のゴルーチンから同時に呼び出せます。
type Client struct {
	fetcher Fetcher
	origin  string
}

// Option は Client の設定を行うための関数型です。
type Option func(*Client)

// WithOrigin はサイトのオリジンを上書きします (テストやミラー向け)。
func WithOrigin(origin string) Option {
	return func(c *Client) {
		if origin != "" {
			c.origin = strings.TrimRight(origin, "/")
		}
	}
}

// NewClient は、新しい Client のインスタンスを生成します。
func NewClient(fetcher Fetcher, opts ...Option) (*Client, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("geeknews.NewClient: Fetcher cannot be nil")
	}
	c := &Client{
		fetcher: fetcher,
		origin:  DefaultOrigin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Origin は使用中のオリジンを返します。
func (c *Client) Origin() string {
	return c.origin
}

// ListArticles は指定ページの記事一覧を取得します。
// 結果は常にエンベロープとして返され、失敗は ListResult.Err で判別します。
func (c *Client) ListArticles(ctx context.Context, page int) ListResult {
	if page < 1 {
		return listFailure(page, fmt.Errorf("ページ番号は1以上である必要があります: %d", page))
	}

	body, err := c.fetcher.FetchBytes(ctx, ListURL(c.origin, page))
	if err != nil {
		return listFailure(page, err)
	}

	articles, err := ParseListing(body)
	if err != nil {
		return listFailure(page, err)
	}
	return listSuccess(page, articles)
}

// GetArticle は記事詳細を取得します。
// 取得に失敗しない限り、欠けたフィールドは既定値で補完され成功エンベロープになります。
// 空白だけの id は取得を行わず、page_url を付けたエラーエンベロープを返します。
func (c *Client) GetArticle(ctx context.Context, id string) DetailResult {
	pageURL := TopicURL(c.origin, id)

	if strings.TrimSpace(id) == "" {
		return detailFailure(id, pageURL, fmt.Errorf("記事IDが空です"))
	}

	body, err := c.fetcher.FetchBytes(ctx, pageURL)
	if err != nil {
		return detailFailure(id, pageURL, err)
	}

	article, err := ParseDetail(body, id, c.origin)
	if err != nil {
		return detailFailure(id, pageURL, err)
	}
	return detailSuccess(article)
}
