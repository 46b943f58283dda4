package geeknews

import (
	"context"
	"time"

	"github.com/shouni/go-geeknews/pkg/feed"
)

// FeedURL はサイトの Atom フィードのURLです。
func FeedURL(origin string) string {
	return origin + feedPath
}

// ListFeed は最新記事をフィード経由で取得します。
// 各エントリの ID はリンクの id パラメーターから取り出します。
func (c *Client) ListFeed(ctx context.Context) FeedResult {
	parsed, err := feed.NewParser(c.fetcher).FetchAndParse(ctx, FeedURL(c.origin))
	if err != nil {
		return FeedResult{Status: StatusError, Message: feedErrorPrefix + err.Error(), Err: err}
	}

	entries := feed.NewFeedAdapter(parsed).Entries()
	out := make([]FeedEntry, 0, len(entries))
	for _, e := range entries {
		fe := FeedEntry{
			ID:      feed.QueryParam(e.Link, "id"),
			Title:   e.Title,
			PageURL: e.Link,
			Author:  e.Author,
		}
		if e.Published != nil {
			fe.Published = e.Published.UTC().Format(time.RFC3339)
		}
		out = append(out, fe)
	}
	return FeedResult{Status: StatusSuccess, Entries: out}
}
