package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/imattdu/assistdash/logx"
)

// Hook 在每次尝试前后执行

type BeforeFunc func(ctx context.Context, req *http.Request)
type AfterFunc func(ctx context.Context, req *http.Request, resp *http.Response, err error)

// DefaultMaxRetries 首次之外最多再试几次
const DefaultMaxRetries = 3

// Config 是 Client 的初始化配置
type Config struct {
	BaseURL string

	// 合并在 Content-Type: application/json 之上，调用方同名 header 优先
	DefaultHeaders http.Header

	// 单次尝试超时（per-request 没设 Timeout 时使用），<=0 不限制
	DefaultTimeout time.Duration

	// 连接相关
	DialTimeout           time.Duration
	DialKeepAlive         time.Duration
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	ReadWriteTimeout      time.Duration // 每次 Read/Write 的 deadline
	ResponseHeaderTimeout time.Duration
	DisableHTTP2          bool

	// 重试相关
	MaxRetries int
	Backoff    BackoffFunc
	Sleep      SleepFunc

	// 不为空时直接使用，忽略上面的连接配置
	HTTPClient *http.Client

	Before []BeforeFunc
	After  []AfterFunc

	// 调用统计上报（打点 / 日志）
	StatsHook StatsHook

	// 为空时使用 logx.L()
	Logger logx.Logger
}

func defaultConfig() Config {
	return Config{
		DefaultTimeout:        10 * time.Second,
		DialTimeout:           3 * time.Second,
		DialKeepAlive:         60 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ReadWriteTimeout:      10 * time.Second,
		ResponseHeaderTimeout: 8 * time.Second,
		MaxRetries:            DefaultMaxRetries,
	}
}

type Option func(*Config)

func WithBaseURL(s string) Option {
	return func(c *Config) { c.BaseURL = s }
}

func WithDefaultHeader(k, v string) Option {
	return func(c *Config) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(http.Header)
		}
		c.DefaultHeaders.Set(k, v)
	}
}

func WithDefaultTimeout(t time.Duration) Option {
	return func(c *Config) { c.DefaultTimeout = t }
}

func WithReadWriteTimeout(t time.Duration) Option {
	return func(c *Config) { c.ReadWriteTimeout = t }
}

func WithMaxRetries(n int) Option {
	return func(c *Config) { c.MaxRetries = n }
}

func WithBackoff(b BackoffFunc) Option {
	return func(c *Config) { c.Backoff = b }
}

func WithSleep(s SleepFunc) Option {
	return func(c *Config) { c.Sleep = s }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

func WithBeforeHooks(h ...BeforeFunc) Option {
	return func(c *Config) { c.Before = append(c.Before, h...) }
}

func WithAfterHooks(h ...AfterFunc) Option {
	return func(c *Config) { c.After = append(c.After, h...) }
}

func WithStatsHook(h StatsHook) Option {
	return func(c *Config) { c.StatsHook = h }
}

func WithLogger(l logx.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Client 是并发安全的 HTTP 客户端，New 之后不再修改
type Client struct {
	hc      *http.Client
	baseURL string

	defaultHeaders http.Header

	before []BeforeFunc
	after  []AfterFunc

	defaultTimeout time.Duration
	maxRetries     int
	backoff        BackoffFunc
	sleep          SleepFunc
	statsHook      StatsHook
	logger         logx.Logger
}

func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
		}
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: buildTransport(&cfg)}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	bf := cfg.Backoff
	if bf == nil {
		bf = defaultBackoff
	}
	sl := cfg.Sleep
	if sl == nil {
		sl = sleepContext
	}

	headers := make(http.Header, len(cfg.DefaultHeaders))
	for k, vs := range cfg.DefaultHeaders {
		headers[textproto.CanonicalMIMEHeaderKey(k)] = append([]string(nil), vs...)
	}

	return &Client{
		hc:      hc,
		baseURL: base,

		defaultHeaders: headers,

		before: append([]BeforeFunc(nil), cfg.Before...),
		after:  append([]AfterFunc(nil), cfg.After...),

		defaultTimeout: cfg.DefaultTimeout,
		maxRetries:     maxRetries,
		backoff:        bf,
		sleep:          sl,
		statsHook:      cfg.StatsHook,
		logger:         cfg.Logger,
	}, nil
}

// BaseURL 归一化后的地址（无末尾 /）
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) log() logx.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logx.L()
}
