package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shouni/go-geeknews/pkg/scraper"
)

// コマンドラインフラグ変数を定義
var (
	inputIDs    string // --ids フラグで受け取るカンマ区切りの記事IDリスト
	concurrency int    // --concurrency フラグで受け取る並列実行数
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "複数の記事詳細を並列で取得します",
	Long:  `--ids フラグでカンマ区切りの記事IDリストを受け取るか、標準入力からIDを一行ずつ読み込み、指定された最大同時実行数で並列取得します。結果は入力と同じ順序で出力されます。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		var ids []string
		if inputIDs != "" {
			ids = splitIDs(inputIDs)
		} else {
			log.Info().Msg("IDが指定されていないため、標準入力から読み込みます (Ctrl+DまたはEOFで終了)")
			var err error
			ids, err = readIDs(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("処理対象の記事IDが一つも指定されていません")
		}

		s := app.Scraper
		if cmd.Flags().Changed("concurrency") {
			s = scraper.NewParallelScraper(app.Client, concurrency)
		}

		ctx, cancel := withBatchTimeout(cmd, len(ids), s.MaxConcurrency())
		defer cancel()

		log.Info().Int("count", len(ids)).Int("concurrency", s.MaxConcurrency()).Msg("並列取得を開始します")
		results := s.ScrapeArticles(ctx, ids)

		failed := 0
		for _, r := range results {
			if !r.OK() {
				failed++
			}
		}
		if err := renderer.Write(output, results); err != nil {
			return err
		}
		log.Info().Int("success", len(results)-failed).Int("failed", failed).Msg("並列取得が完了しました")
		return nil
	},
}

// splitIDs はカンマ区切りのIDリストを分割し、空要素を除きます。
func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// readIDs は r から記事IDを一行ずつ読み込みます。
func readIDs(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("標準入力の読み取りエラー: %w", err)
	}
	return ids, nil
}

func init() {
	batchCmd.Flags().StringVarP(&inputIDs, "ids", "i", "",
		"取得対象のカンマ区切り記事IDリスト (例: 101,102,103)")

	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "c",
		scraper.DefaultMaxConcurrency,
		fmt.Sprintf("最大並列実行数 (デフォルト: %d)", scraper.DefaultMaxConcurrency))
}
