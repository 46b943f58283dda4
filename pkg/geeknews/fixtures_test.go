package geeknews

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ======================================================================
// テスト用フィクスチャとモック
// ======================================================================

// listingRow は一覧ページの1行分のマークアップを生成します。
func listingRow(id, points, comments string) string {
	commentLink := ""
	if comments != "" {
		commentLink = fmt.Sprintf(`<a href='topic?id=%s&go=comments' class='u'>%s</a>`, id, comments)
	}
	return fmt.Sprintf(`
<div class='topic_row'>
  <div class='votenum'><span id='vote%[1]s'></span></div>
  <div class='topictitle'><a href='https://example.com/post/%[1]s' rel='nofollow'><h1>Title %[1]s</h1></a><span class='topicurl'>(example.com)</span></div>
  <div class='topicdesc'><a href='topic?id=%[1]s' class='c99 breakall'>Description %[1]s</a></div>
  <div class='topicinfo'><span id='tp%[1]s'>%[2]s</span> points by <a href='/user?id=user%[1]s'>user%[1]s</a> 3 hours ago <span>|</span> %[3]s</div>
</div>`, id, points, commentLink)
}

func listingPage(rows ...string) string {
	return `<html><head><title>GeekNews</title></head><body><div class='topics'>` +
		strings.Join(rows, "\n") +
		`</div></body></html>`
}

const detailPage = `<html><head><title>Go 1.30 released | GeekNews</title></head><body>
<div class='topic-table'>
  <div class='topic'>
    <div class='topictitle link'><a href='https://go.dev/blog/go1.30' class='bold ud'><h1>Go 1.30 released</h1></a></div>
    <div class='topicinfo'><span id='tp28123'>12 points</span> by <a href='/user?id=gopher'>gopher</a> <span title='2026-10-16 09:00:00'>2 hours ago</span> | <a href='#comment_thread'>3 comments</a></div>
    <div class='topic_contents'><span id='topic_contents'><p>First paragraph</p><ul><li>Point one</li><li>Point two</li></ul></span></div>
  </div>
</div>
<div id='comment_thread'>
  <div class='comment_row'>a</div>
  <div class='comment_row'>b</div>
  <div class='comment_row'>c</div>
</div>
</body></html>`

// MockFetcher はテスト用の Fetcher 実装です。
type MockFetcher struct {
	mu          sync.Mutex
	htmlContent string
	fetchError  error
	requested   []string
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.requested = append(m.requested, url)
	m.mu.Unlock()

	if m.fetchError != nil {
		return nil, m.fetchError
	}
	return []byte(m.htmlContent), nil
}

func (m *MockFetcher) Requested() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requested...)
}
