package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

func buildTransport(cfg *Config) *http.Transport {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           makeDialContext(cfg.DialTimeout, cfg.DialKeepAlive, cfg.ReadWriteTimeout),
		ForceAttemptHTTP2:     !cfg.DisableHTTP2,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
	}
	if cfg.DisableHTTP2 {
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}
	return tr
}

// timeoutConn 每次 Read/Write 前刷新 deadline
type timeoutConn struct {
	net.Conn
	rw time.Duration
}

func (c *timeoutConn) Read(b []byte) (int, error) {
	if c.rw > 0 {
		_ = c.SetReadDeadline(time.Now().Add(c.rw))
	}
	return c.Conn.Read(b)
}

func (c *timeoutConn) Write(b []byte) (int, error) {
	if c.rw > 0 {
		_ = c.SetWriteDeadline(time.Now().Add(c.rw))
	}
	return c.Conn.Write(b)
}

func makeDialContext(dial, keepAlive, rw time.Duration) func(ctx context.Context, network, addr string) (net.Conn, error) {
	d := &net.Dialer{Timeout: dial, KeepAlive: keepAlive}
	if rw <= 0 {
		return d.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return &timeoutConn{Conn: conn, rw: rw}, nil
	}
}
