package feed

import (
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry はフィードアイテムから必要な項目だけを取り出したものです。
type Entry struct {
	Link      string
	Title     string
	Author    string
	Published *time.Time
}

// FeedAdapter は gofeed.Feed の具体的な構造への依存を内部に閉じ込めます。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// Entries はリンクを持つアイテムだけをフィード内の順序で返します。
func (a *FeedAdapter) Entries() []Entry {
	if a.Feed == nil || len(a.Items) == 0 {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil || item.Link == "" {
			continue
		}
		e := Entry{
			Link:      item.Link,
			Title:     item.Title,
			Published: item.PublishedParsed,
		}
		if e.Published == nil {
			e.Published = item.UpdatedParsed
		}
		if item.Author != nil {
			e.Author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			e.Author = item.Authors[0].Name
		}
		entries = append(entries, e)
	}
	return entries
}

// QueryParam はリンクのクエリパラメーター key の値を返します。解釈できない場合は空文字列です。
func QueryParam(link, key string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}
