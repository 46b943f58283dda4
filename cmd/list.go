package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shouni/go-geeknews/pkg/geeknews"
)

// errEnvelope はエラーエンベロープを出力した後、終了コードを非0にするためのエラーです。
var errEnvelope = errors.New("エラーエンベロープが返されました")

var listPage int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "記事一覧ページを取得し、記事のリストを出力します",
	Long:  `指定ページ (--page) の記事一覧を取得します。id と points が欠けた行が1つでもあれば、ページ全体がエラーになります。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withOverallTimeout(cmd)
		defer cancel()

		log.Debug().Int("page", listPage).Msg("記事一覧を取得します")
		result := app.Client.ListArticles(ctx, listPage)

		if err := renderer.Write(output, result); err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("%w: %s", errEnvelope, result.Message)
		}
		log.Info().Int("page", result.Page).Int("count", len(result.Articles)).Msg("記事一覧を取得しました")
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", geeknews.DefaultPage, "取得するページ番号 (1始まり)")
}
