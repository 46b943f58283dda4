package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shouni/go-geeknews/pkg/geeknews"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Atomフィードから最新記事を取得します",
	Long:  `サイトのフィード (/rss/news) を取得・解析し、各エントリのID、タイトル、URL、作者、公開日時を出力します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withOverallTimeout(cmd)
		defer cancel()

		log.Debug().Str("url", geeknews.FeedURL(app.Client.Origin())).Msg("フィードを取得します")
		result := app.Client.ListFeed(ctx)

		if err := renderer.Write(output, result); err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("%w: %s", errEnvelope, result.Message)
		}
		return nil
	},
}
