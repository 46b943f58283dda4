package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var articleCmd = &cobra.Command{
	Use:   "article <id>",
	Short: "記事詳細ページを取得し、本文とメタデータを出力します",
	Long:  `記事IDを指定して詳細ページを取得します。見つからないフィールドは既定値 (N/A, 0, 空文字列, null) で補完されます。`,
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withOverallTimeout(cmd)
		defer cancel()

		result := app.Client.GetArticle(ctx, args[0])

		if err := renderer.Write(output, result); err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("%w: %s", errEnvelope, result.Message)
		}
		return nil
	},
}
