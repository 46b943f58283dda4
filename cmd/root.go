package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-geeknews/internal/config"
	"github.com/shouni/go-geeknews/internal/pipeline"
	"github.com/shouni/go-geeknews/pkg/render"
)

// --- グローバル定数 ---

const appName = "geeknews"

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	ConfigFile string // --config-file 設定ファイルのパス
	TimeoutSec int    // --timeout タイムアウト
	MaxRetries int    // --max-retries リトライ回数
	UserAgent  string // --user-agent 送信する User-Agent
	Format     string // --format 出力形式
}

var Flags AppFlags

var (
	app      *pipeline.Pipeline // PreRunE で初期化される依存関係一式
	renderer *render.Renderer
	output   io.Writer = os.Stdout
)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
// フラグは明示的に指定された場合のみ設定ファイルと環境変数を上書きします。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	defaults := config.Default()

	rootCmd.PersistentFlags().StringVar(
		&Flags.ConfigFile,
		"config-file",
		"",
		fmt.Sprintf("設定ファイルのパス (未指定時は %s があれば読み込み)", config.DefaultFile),
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaults.TimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.MaxRetries,
		"max-retries",
		defaults.MaxRetries,
		"HTTPリクエストのリトライ最大回数 (0 でリトライなし)",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.UserAgent,
		"user-agent",
		defaults.UserAgent,
		"送信する User-Agent",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.Format,
		"format",
		defaults.Format,
		"出力形式 (json | markdown)",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	setupLogger(clibase.Flags.Verbose)
	cmd.SilenceUsage = true

	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	renderer = render.New(format)

	app, err = pipeline.New(cfg)
	if err != nil {
		return err
	}

	log.Debug().
		Str("origin", cfg.Origin).
		Str("user_agent", cfg.UserAgent).
		Dur("timeout", cfg.Timeout()).
		Int("max_retries", cfg.MaxRetries).
		Str("format", string(format)).
		Msg("設定を読み込みました")
	return nil
}

// applyFlags は明示的に指定されたフラグだけを cfg に反映します。
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.TimeoutSec = Flags.TimeoutSec
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = Flags.MaxRetries
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = Flags.UserAgent
	}
	if flags.Changed("format") {
		cfg.Format = Flags.Format
	}
}

// setupLogger は zerolog をコンソール出力 (stderr) に設定します。
func setupLogger(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// withOverallTimeout は全体処理のコンテキストを設定します。
func withOverallTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return app.WithOverallTimeout(parent)
}

// withBatchTimeout は n 件の並列取得全体にタイムアウトを設定したコンテキストを返します。
func withBatchTimeout(cmd *cobra.Command, n, concurrency int) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return app.WithBatchTimeout(parent, n, concurrency)
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		listCmd,
		articleCmd,
		batchCmd,
		feedCmd,
		serveCmd,
	)
}
