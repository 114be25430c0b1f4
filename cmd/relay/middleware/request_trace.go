package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/trace"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	maxBodyLog = 1024
)

// 요청 바디 로그에서 값을 가리는 키.
var maskedBodyKeys = map[string]bool{
	"app_secret": true,
}

// RequestTrace 는 모든 inbound 요청에 Request ID 와 Span ID 를 보장하고
// 컨텍스트/헤더에 저장한 뒤 완료 로그를 남긴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		// inbound 로그는 span_id=0, outbound 호출은 1,2,3,... 로 증가한다.
		ctxWithTrace := trace.WithRequestAndSpan(req.Context(), requestID, 0)
		c.Request = req.WithContext(ctxWithTrace)
		req = c.Request

		currentSpan := trace.CurrentSpanID(ctxWithTrace)
		c.Request.Header.Set(headerRequestID, requestID)
		c.Request.Header.Set(headerSpanID, currentSpan)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Writer.Header().Set(headerSpanID, currentSpan)

		var bodySnippet string
		if req.Body != nil && req.ContentLength != 0 &&
			(req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch) {
			if bodyBytes, err := io.ReadAll(req.Body); err == nil {
				bodySnippet = maskBody(bodyBytes)
				// 핸들러에서 다시 읽을 수 있도록 Body 를 복원한다.
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}

		c.Next()

		fields := logger.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    trace.CurrentSpanID(c.Request.Context()),
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// maskBody 는 JSON 객체면 민감한 키를 가린 뒤 직렬화하고, 앞 1KB 만 남긴다.
func maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		for key := range obj {
			if maskedBodyKeys[key] {
				obj[key] = "***"
			}
		}
		if masked, err := json.Marshal(obj); err == nil {
			body = masked
		}
	}
	if len(body) > maxBodyLog {
		return string(body[:maxBodyLog])
	}
	return string(body)
}
