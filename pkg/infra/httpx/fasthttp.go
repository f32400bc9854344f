package httpx

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	defaultClientTimeout   = 30 * time.Second
	defaultMaxConnsPerHost = 256
	defaultMaxResponseBody = 10 << 20
)

// FastHTTPConfig tunes the pooled transport. The zero value is usable;
// unset fields fall back to the package defaults.
type FastHTTPConfig struct {
	Timeout             time.Duration
	MaxConnsPerHost     int
	MaxResponseBodySize int
	InsecureSkipVerify  bool
	UserAgent           string
}

// FastHTTPClient serves outbound calls from a pooled fasthttp transport
// behind the net/http-shaped Client interface.
type FastHTTPClient struct {
	client    *fasthttp.Client
	userAgent string
}

func NewFastHTTPClient(cfg FastHTTPConfig) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultClientTimeout
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = defaultMaxConnsPerHost
	}
	if cfg.MaxResponseBodySize <= 0 {
		cfg.MaxResponseBodySize = defaultMaxResponseBody
	}

	client := &fasthttp.Client{
		ReadTimeout:         cfg.Timeout,
		WriteTimeout:        cfg.Timeout,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxResponseBodySize: cfg.MaxResponseBodySize,
	}
	if cfg.InsecureSkipVerify {
		client.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // operator opt-in
	}

	return &FastHTTPClient{client: client, userAgent: cfg.UserAgent}
}

// Do adapts a net/http request onto the fasthttp transport. A deadline
// on the request context bounds the whole exchange. The response body is
// buffered in full; fasthttp reuses its internal buffers once a response
// is released, so the bytes are copied out first.
func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	if req.URL != nil {
		fastReq.SetRequestURI(req.URL.String())
	}
	fastReq.Header.SetMethod(req.Method)
	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	}
	for key, values := range req.Header {
		for _, value := range values {
			fastReq.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		fastReq.Header.Set("User-Agent", c.userAgent)
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
	}

	var err error
	if deadline, ok := req.Context().Deadline(); ok {
		err = c.client.DoDeadline(fastReq, fastResp, deadline)
	} else {
		err = c.client.Do(fastReq, fastResp)
	}
	if err != nil {
		return nil, err
	}

	body := append([]byte(nil), fastResp.Body()...)
	header := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})
	status := fastResp.StatusCode()

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
