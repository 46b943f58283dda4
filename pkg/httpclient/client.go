package httpclient

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const (
	// DefaultHTTPTimeout は、1リクエストあたりの固定タイムアウトです。
	DefaultHTTPTimeout = httpkit.DefaultHTTPTimeout

	// 一般的なブラウザとして振る舞うためのUser-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

	// リトライ時のバックオフ間隔
	InitialBackoffInterval = 500 * time.Millisecond
	MaxBackoffInterval     = 5 * time.Second
)

// Doer は、標準の *http.Client.Do() と互換性のあるインターフェースです。
type Doer = httpkit.Doer

// Fetcher は、URLから生のバイト配列を取得する機能のインターフェースです。
type Fetcher = httpkit.Fetcher

// serverErrorPattern は httpkit が 5xx に対して返すエラーメッセージからステータスコードを取り出します。
var serverErrorPattern = regexp.MustCompile(`\(5xx リトライ対象\): (\d{3})`)

// userAgentDoer は送信前に User-Agent を上書きする Doer です。
// httpkit は固定の User-Agent を設定するため、その後に差し替えます。
type userAgentDoer struct {
	next      Doer
	userAgent string
}

func (d *userAgentDoer) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", d.userAgent)
	return d.next.Do(req)
}

type options struct {
	doer            Doer
	userAgent       string
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// Option は New の設定を行うための関数型です。
type Option func(*options)

// WithHTTPClient は下位のDoerを差し替えます。
func WithHTTPClient(doer Doer) Option {
	return func(o *options) {
		o.doer = doer
	}
}

// WithUserAgent は送信する User-Agent を上書きします。空文字列は無視されます。
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithMaxRetries はリトライ回数を設定します。0 の場合、取得は1回だけです。
func WithMaxRetries(n uint64) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithBackoff はリトライ間隔を設定します。
func WithBackoff(initial, maxInterval time.Duration) Option {
	return func(o *options) {
		o.initialInterval = initial
		o.maxInterval = maxInterval
	}
}

// New は httpkit.Client を生成します。
// 既定ではリトライせず、DefaultUserAgent を送信し、2xx 以外はエラーになります。
func New(timeout time.Duration, opts ...Option) *httpkit.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	o := &options{
		doer:            &http.Client{Timeout: timeout},
		userAgent:       DefaultUserAgent,
		initialInterval: InitialBackoffInterval,
		maxInterval:     MaxBackoffInterval,
	}
	for _, opt := range opts {
		opt(o)
	}

	return httpkit.New(
		timeout,
		httpkit.WithHTTPClient(&userAgentDoer{next: o.doer, userAgent: o.userAgent}),
		httpkit.WithMaxRetries(o.maxRetries),
		httpkit.WithInitialInterval(o.initialInterval),
		httpkit.WithMaxInterval(o.maxInterval),
	)
}

// StatusCode はエラーが 2xx 以外の応答によるものであれば、そのステータスコードを返します。
func StatusCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var clientErr *httpkit.NonRetryableHTTPError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode, true
	}
	if m := serverErrorPattern.FindStringSubmatch(err.Error()); m != nil {
		code, convErr := strconv.Atoi(m[1])
		if convErr == nil {
			return code, true
		}
	}
	return 0, false
}

// IsClientError は 4xx 系など、リトライしても結果が変わらない応答かどうかを判定します。
func IsClientError(err error) bool {
	return httpkit.IsNonRetryableError(err)
}
