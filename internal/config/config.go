package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"

	"github.com/shouni/go-geeknews/pkg/geeknews"
	"github.com/shouni/go-geeknews/pkg/httpclient"
	"github.com/shouni/go-geeknews/pkg/render"
	"github.com/shouni/go-geeknews/pkg/scraper"
)

// DefaultFile は --config が指定されない場合に探す設定ファイル名です。
const DefaultFile = "geeknews.yaml"

// 環境変数名
const (
	EnvOrigin     = "GEEKNEWS_ORIGIN"
	EnvUserAgent  = "GEEKNEWS_USER_AGENT"
	EnvTimeoutSec = "GEEKNEWS_TIMEOUT_SEC"
	EnvMaxRetries = "GEEKNEWS_MAX_RETRIES"
	EnvListen     = "GEEKNEWS_LISTEN"
)

// Config はアプリケーション全体の設定です。
// 優先順位は 既定値 < 設定ファイル < 環境変数 (.env を含む) < CLIフラグ です。
type Config struct {
	Origin      string `yaml:"origin"`
	UserAgent   string `yaml:"userAgent"`
	TimeoutSec  int    `yaml:"timeoutSec"`
	MaxRetries  int    `yaml:"maxRetries"`
	Concurrency int    `yaml:"concurrency"`
	Listen      string `yaml:"listen"`
	Format      string `yaml:"format"`
}

// Default は既定値で埋めた Config を返します。
// リトライ回数の既定値は 0 で、取得は1回だけ行われます。
func Default() Config {
	return Config{
		Origin:      geeknews.DefaultOrigin,
		UserAgent:   httpclient.DefaultUserAgent,
		TimeoutSec:  int(httpclient.DefaultHTTPTimeout / time.Second),
		MaxRetries:  0,
		Concurrency: scraper.DefaultMaxConcurrency,
		Listen:      ":8080",
		Format:      string(render.FormatJSON),
	}
}

// Timeout は1回の取得のタイムアウトです。
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Load は設定ファイル、.env、環境変数を順に重ねて Config を構築します。
// path が空の場合は DefaultFile が存在すれば読み込みます。
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := applyFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	// .env は既存の環境変数を上書きしない
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf(".env の読み込みに失敗しました: %w", err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOrigin); ok && v != "" {
		cfg.Origin = v
	}
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		cfg.Listen = v
	}
	if v, ok := lookup(EnvTimeoutSec); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s の値が不正です: %q", EnvTimeoutSec, v)
		}
		cfg.TimeoutSec = n
	}
	if v, ok := lookup(EnvMaxRetries); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s の値が不正です: %q", EnvMaxRetries, v)
		}
		cfg.MaxRetries = n
	}
	return nil
}

// Validate は設定値を検証し、オリジンを正規化します。
func (c *Config) Validate() error {
	origin, err := ensureScheme(strings.TrimSpace(c.Origin))
	if err != nil {
		return err
	}
	c.Origin = strings.TrimRight(origin, "/")

	if c.TimeoutSec <= 0 {
		return fmt.Errorf("タイムアウトは1秒以上である必要があります: %d", c.TimeoutSec)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("リトライ回数は0以上である必要があります: %d", c.MaxRetries)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("並列数は1以上である必要があります: %d", c.Concurrency)
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

// ensureScheme は、URLのスキームが存在しない場合に https:// を補完します。
func ensureScheme(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("オリジンが空です")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		if parsedURL.Host == "" {
			return "", fmt.Errorf("オリジンにホストがありません: %s", rawURL)
		}
		return rawURL, nil
	}

	return "https://" + rawURL, nil
}
