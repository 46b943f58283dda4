package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/shouni/go-geeknews/internal/metrics"
	"github.com/shouni/go-geeknews/internal/server"
	"github.com/shouni/go-geeknews/pkg/geeknews"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "パイプラインをHTTPツールサーバーとして公開します",
	Long: `GET /v1/articles?page=N, GET /v1/articles/:id, GET /v1/feed を提供します。
成功エンベロープは200、エラーエンベロープは502 (不正なページ番号は400) で返します。/metrics で Prometheus メトリクスを公開します。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		addr := app.Config.Listen
		if cmd.Flags().Changed("listen") {
			addr = listenAddr
		}

		recorder := metrics.New()
		client, err := geeknews.NewClient(
			recorder.InstrumentFetcher(app.Fetcher),
			geeknews.WithOrigin(app.Config.Origin),
		)
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		srv := server.New(client, recorder, app.OverallTimeout())

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8080", "待ち受けアドレス")
}
