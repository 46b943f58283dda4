package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-geeknews/internal/metrics"
	"github.com/shouni/go-geeknews/pkg/geeknews"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockArticles は Articles インターフェースのモックです。
type MockArticles struct {
	mock.Mock
}

func (m *MockArticles) ListArticles(ctx context.Context, page int) geeknews.ListResult {
	args := m.Called(ctx, page)
	return args.Get(0).(geeknews.ListResult)
}

func (m *MockArticles) GetArticle(ctx context.Context, id string) geeknews.DetailResult {
	args := m.Called(ctx, id)
	return args.Get(0).(geeknews.DetailResult)
}

func (m *MockArticles) ListFeed(ctx context.Context) geeknews.FeedResult {
	args := m.Called(ctx)
	return args.Get(0).(geeknews.FeedResult)
}

func serve(t *testing.T, articles Articles, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	New(articles, metrics.New(), 0).Router().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Header().Get("Content-Type") != "" && rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandleList(t *testing.T) {
	t.Run("成功は200", func(t *testing.T) {
		m := new(MockArticles)
		m.On("ListArticles", mock.Anything, 2).Return(geeknews.ListResult{
			Status:   geeknews.StatusSuccess,
			Page:     2,
			Articles: []geeknews.ArticleSummary{{ID: "1", Title: "<b>Go</b>", Points: 3}},
		})

		rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles?page=2", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", body["status"])
		assert.EqualValues(t, 2, body["page"])
		assert.Contains(t, rec.Body.String(), "<b>Go</b>", "HTMLはエスケープしない")
		m.AssertExpectations(t)
	})

	t.Run("ページ省略時は1", func(t *testing.T) {
		m := new(MockArticles)
		m.On("ListArticles", mock.Anything, 1).Return(geeknews.ListResult{Status: geeknews.StatusSuccess, Page: 1})

		rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, body["articles"])
		m.AssertExpectations(t)
	})

	t.Run("エラーエンベロープは502", func(t *testing.T) {
		m := new(MockArticles)
		m.On("ListArticles", mock.Anything, 1).Return(geeknews.ListResult{
			Status:  geeknews.StatusError,
			Page:    1,
			Message: "Failed to fetch GeekNews articles: boom",
			Err:     errors.New("boom"),
		})

		rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles?page=1", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Failed to fetch GeekNews articles: boom", body["message"])
	})

	t.Run("数値でないページは400で呼び出さない", func(t *testing.T) {
		m := new(MockArticles)

		rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles?page=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "abc", body["page"], "不正な値をそのまま返す")
		m.AssertNotCalled(t, "ListArticles", mock.Anything, mock.Anything)
	})

	t.Run("1未満のページは400", func(t *testing.T) {
		m := new(MockArticles)
		m.On("ListArticles", mock.Anything, 0).Return(geeknews.ListResult{
			Status:  geeknews.StatusError,
			Page:    0,
			Message: "Failed to fetch GeekNews articles: invalid page",
			Err:     errors.New("invalid page"),
		})

		rec, _ := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles?page=0", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDetail(t *testing.T) {
	src := "https://go.dev"
	m := new(MockArticles)
	m.On("GetArticle", mock.Anything, "42").Return(geeknews.DetailResult{
		Status: geeknews.StatusSuccess,
		ID:     "42",
		Article: &geeknews.ArticleDetail{
			ID:                "42",
			PageURL:           "https://news.hada.io/topic?id=42",
			Title:             "Answer",
			OriginalSourceURL: &src,
		},
	})
	m.On("GetArticle", mock.Anything, "7").Return(geeknews.DetailResult{
		Status:  geeknews.StatusError,
		ID:      "7",
		PageURL: "https://news.hada.io/topic?id=7",
		Message: "Failed to fetch GeekNews article content: timeout",
		Err:     context.DeadlineExceeded,
	})

	rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Answer", body["title"])
	assert.Equal(t, "https://go.dev", body["original_source_url"])

	rec, body = serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/articles/7", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "7", body["id"])
	assert.Equal(t, "https://news.hada.io/topic?id=7", body["page_url"])

	m.AssertExpectations(t)
}

func TestHandleFeed(t *testing.T) {
	m := new(MockArticles)
	m.On("ListFeed", mock.Anything).Return(geeknews.FeedResult{
		Status:  geeknews.StatusSuccess,
		Entries: []geeknews.FeedEntry{{ID: "1", Title: "One"}},
	})

	rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/v1/feed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["articles"], 1)
}

func TestRequestID(t *testing.T) {
	m := new(MockArticles)

	rec, body := serve(t, m, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36, "UUID が採番される")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec, _ = serve(t, m, req)
	assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	m := new(MockArticles)
	m.On("ListFeed", mock.Anything).Return(geeknews.FeedResult{Status: geeknews.StatusError, Message: "x", Err: errors.New("x")})

	srv := New(m, metrics.New(), 0)
	router := srv.Router()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/feed", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `geeknews_pipeline_runs_total{operation="feed",status="error"} 1`)
	assert.Contains(t, rec.Body.String(), `geeknews_server_requests_total{code="502",route="/v1/feed"} 1`)
}
