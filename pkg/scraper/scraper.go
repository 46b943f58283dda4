package scraper

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/shouni/go-geeknews/pkg/geeknews"
)

const (
	// DefaultMaxConcurrency は、並列取得のデフォルトの最大同時実行数を定義します。
	DefaultMaxConcurrency = 6
)

// ArticleGetter は記事詳細を1件取得する機能のインターフェースです。
// *geeknews.Client がこれを満たします。
type ArticleGetter interface {
	GetArticle(ctx context.Context, id string) geeknews.DetailResult
}

// Scraper は複数記事の詳細を取得する機能を提供するインターフェースです。
type Scraper interface {
	ScrapeArticles(ctx context.Context, ids []string) []geeknews.DetailResult
}

// ParallelScraper は Scraper インターフェースを実装する並列処理構造体です。
type ParallelScraper struct {
	getter         ArticleGetter
	maxConcurrency int // 最大並列数を保持するフィールド
}

// NewParallelScraper は ParallelScraper を初期化します。
// 依存性として ArticleGetter と、最大同時実行数を受け取ります。
func NewParallelScraper(getter ArticleGetter, maxConcurrency int) *ParallelScraper {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &ParallelScraper{
		getter:         getter,
		maxConcurrency: maxConcurrency,
	}
}

// MaxConcurrency は設定された最大同時実行数を返します。
func (s *ParallelScraper) MaxConcurrency() int {
	return s.maxConcurrency
}

// ScrapeArticles は ids の各記事を並列に取得し、入力と同じ順序で結果を返します。
// 個々の失敗はエラーエンベロープとして結果に含まれます。
func (s *ParallelScraper) ScrapeArticles(ctx context.Context, ids []string) []geeknews.DetailResult {
	results := make([]geeknews.DetailResult, len(ids))
	var wg sync.WaitGroup

	// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限する
	semaphore := make(chan struct{}, s.maxConcurrency)

	for i, id := range ids {
		wg.Add(1)

		// スロットの確保。maxConcurrency件実行中の場合はここでブロックして待機。
		// コンテキストがキャンセル済みの場合、各取得はすぐにエラーエンベロープを返す。
		semaphore <- struct{}{}

		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			res := s.getter.GetArticle(ctx, id)
			if !res.OK() {
				log.Warn().Str("id", id).Err(res.Err).Msg("記事の取得に失敗しました")
			} else {
				log.Debug().Str("id", id).Msg("記事を取得しました")
			}
			results[i] = res
		}(i, id)
	}

	wg.Wait()
	return results
}
