package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/trace"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyLog     = 1024
	redacted       = "REDACTED"
)

// 로그에 남기면 안 되는 쿼리 파라미터. WeChat API 는 자격증명을 쿼리로 받는다.
var sensitiveQueryKeys = []string{"secret", "access_token", "appsecret"}

// Config 는 HTTP 클라이언트 공통 설정이다.
type Config struct {
	Timeout time.Duration
}

// loggingRoundTripper 는 모든 outbound 호출에 대해 공통 로깅과
// X-Request-Id / X-Span-Id 헤더 트레이싱을 수행한다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("X-Span-Id", spanID)

	bodySnippet := snippetBody(req)

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)

	fields := logger.Fields{
		"method":     req.Method,
		"url":        RedactURL(req.URL),
		"duration":   duration.String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if label := trace.SpanLabelFromContext(req.Context()); label != "" {
		fields["span"] = label
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// snippetBody 는 로깅용으로 텍스트 바디 앞부분을 읽고, 전송을 위해 Body 를 복원한다.
// multipart 같은 바이너리 바디는 크기만 기록한다.
func snippetBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody {
		return ""
	}
	contentType := req.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") || strings.HasPrefix(contentType, "application/octet-stream") {
		if req.ContentLength > 0 {
			return "<" + contentType + "; " + strconv.FormatInt(req.ContentLength, 10) + " bytes>"
		}
		return "<" + contentType + ">"
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if len(bodyBytes) > maxBodyLog {
		return string(bodyBytes[:maxBodyLog])
	}
	return string(bodyBytes)
}

// RedactURL 은 자격증명 쿼리 값을 가린 URL 문자열을 반환한다.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.String()
	}
	q := u.Query()
	for _, key := range sensitiveQueryKeys {
		if q.Has(key) {
			q.Set(key, redacted)
		}
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}

// BaseClient 는 공통 HTTP 클라이언트와 baseURL 을 묶어 URL/요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewBaseClient(baseURL string, cfg Config) *BaseClient {
	return &BaseClient{
		HTTPClient: New(cfg),
		BaseURL:    baseURL,
	}
}

// NewRequest 는 baseURL 과 relPath, query, body 로 요청을 만든다.
// relPath 에 쿼리(?)가 들어 있으면 path.Join 이 망가뜨리므로 에러를 반환한다.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New 는 로깅 RoundTripper 를 감싼 http.Client 를 만든다. Timeout 이 0 이면 10초.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport},
	}
}
