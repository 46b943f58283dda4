package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shouni/go-geeknews/internal/metrics"
	"github.com/shouni/go-geeknews/pkg/geeknews"
)

// RequestIDHeader はリクエストIDを運ぶヘッダーです。
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey    = "request_id"
	shutdownTimeout = 5 * time.Second
)

// Articles はツールサーバーが公開するパイプラインです。*geeknews.Client がこれを満たします。
type Articles interface {
	ListArticles(ctx context.Context, page int) geeknews.ListResult
	GetArticle(ctx context.Context, id string) geeknews.DetailResult
	ListFeed(ctx context.Context) geeknews.FeedResult
}

// Server はパイプラインを HTTP で公開するツールサーバーです。
type Server struct {
	articles       Articles
	recorder       *metrics.Recorder
	requestTimeout time.Duration
}

// New は Server を生成します。requestTimeout が0以下の場合、リクエストのコンテキストをそのまま使います。
func New(articles Articles, recorder *metrics.Recorder, requestTimeout time.Duration) *Server {
	return &Server{
		articles:       articles,
		recorder:       recorder,
		requestTimeout: requestTimeout,
	}
}

// Router はルーティング済みの gin.Engine を返します。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.recorder.Handler()))

	v1 := r.Group("/v1")
	v1.GET("/articles", s.handleList)
	v1.GET("/articles/:id", s.handleDetail)
	v1.GET("/feed", s.handleFeed)
	return r
}

// Run は addr で待ち受け、ctx がキャンセルされるとグレースフルに停止します。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("ツールサーバーを起動しました")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("サーバーの起動に失敗しました: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("ツールサーバーを停止します")
		return srv.Shutdown(shutdownCtx)
	}
}

// ----------------------------------------------------------------------
// ハンドラー
// ----------------------------------------------------------------------

func (s *Server) handleList(c *gin.Context) {
	raw := c.DefaultQuery("page", strconv.Itoa(geeknews.DefaultPage))
	page, err := strconv.Atoi(raw)
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"status":  geeknews.StatusError,
			"message": fmt.Sprintf("ページ番号が不正です: %q", raw),
			"page":    raw,
		})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	start := time.Now()
	result := s.articles.ListArticles(ctx, page)
	s.recorder.ObservePipeline("list", string(result.Status), time.Since(start))

	code := envelopeStatus(result.OK())
	if page < 1 {
		code = http.StatusBadRequest
	}
	s.logFailure(c, result.Err)
	c.PureJSON(code, result)
}

func (s *Server) handleDetail(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	start := time.Now()
	result := s.articles.GetArticle(ctx, c.Param("id"))
	s.recorder.ObservePipeline("detail", string(result.Status), time.Since(start))

	s.logFailure(c, result.Err)
	c.PureJSON(envelopeStatus(result.OK()), result)
}

func (s *Server) handleFeed(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	start := time.Now()
	result := s.articles.ListFeed(ctx)
	s.recorder.ObservePipeline("feed", string(result.Status), time.Since(start))

	s.logFailure(c, result.Err)
	c.PureJSON(envelopeStatus(result.OK()), result)
}

// envelopeStatus はエンベロープの種別をHTTPステータスに対応付けます。
func envelopeStatus(ok bool) int {
	if ok {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.requestTimeout)
}

func (s *Server) logFailure(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log.Warn().
		Str(requestIDKey, c.GetString(requestIDKey)).
		Str("path", c.Request.URL.Path).
		Err(err).
		Msg("パイプラインがエラーエンベロープを返しました")
}

// ----------------------------------------------------------------------
// ミドルウェア
// ----------------------------------------------------------------------

// requestID は受け取った X-Request-ID を引き継ぐか、新しく採番します。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.recorder.ObserveRequest(route, c.Writer.Status())

		log.Debug().
			Str(requestIDKey, c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
