package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-geeknews/internal/config"
	"github.com/shouni/go-geeknews/pkg/geeknews"
	"github.com/shouni/go-geeknews/pkg/httpclient"
	"github.com/shouni/go-geeknews/pkg/scraper"
)

// overallTimeoutFactor は1回の取得タイムアウトに対する全体処理タイムアウトの倍率です。
const overallTimeoutFactor = 2

// Pipeline は設定から組み立てた依存関係一式です。
type Pipeline struct {
	Config  config.Config
	Fetcher httpclient.Fetcher
	Client  *geeknews.Client
	Scraper *scraper.ParallelScraper
}

// New は Config から Fetcher、Client、Scraper を初期化します。
// MaxRetries が 0 の場合、取得はリトライなしの1回だけです。
func New(cfg config.Config) (*Pipeline, error) {
	// 1. Fetcher の初期化
	fetcher := httpclient.New(
		cfg.Timeout(),
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithMaxRetries(uint64(cfg.MaxRetries)),
	)

	// 2. Client を初期化 (DI)
	client, err := geeknews.NewClient(fetcher, geeknews.WithOrigin(cfg.Origin))
	if err != nil {
		return nil, fmt.Errorf("Clientの初期化エラー: %w", err)
	}

	return &Pipeline{
		Config:  cfg,
		Fetcher: fetcher,
		Client:  client,
		Scraper: scraper.NewParallelScraper(client, cfg.Concurrency),
	}, nil
}

// OverallTimeout は1回の処理全体に許す時間です。
// リトライがある場合はその回数分を見込みます。
func (p *Pipeline) OverallTimeout() time.Duration {
	return p.Config.Timeout() * time.Duration(overallTimeoutFactor*(p.Config.MaxRetries+1))
}

// WithOverallTimeout は全体処理のコンテキストを設定します。
func (p *Pipeline) WithOverallTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, p.OverallTimeout())
}

// BatchTimeout は n 件を concurrency 並列で取得する場合の全体処理時間です。
// 1件分の OverallTimeout を ceil(n/concurrency) 回分見込みます。
func (p *Pipeline) BatchTimeout(n, concurrency int) time.Duration {
	if concurrency < 1 {
		concurrency = 1
	}
	rounds := (n + concurrency - 1) / concurrency
	if rounds < 1 {
		rounds = 1
	}
	return p.OverallTimeout() * time.Duration(rounds)
}

// WithBatchTimeout は n 件の並列取得全体のコンテキストを設定します。
func (p *Pipeline) WithBatchTimeout(parent context.Context, n, concurrency int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, p.BatchTimeout(n, concurrency))
}
