package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxKeyTrace     ctxKey = "trace_info"
	ctxKeySpanLabel ctxKey = "span_label"
)

// /sync 한 번이 만드는 outbound 호출 종류. 로그의 span 필드에 남는다.
const (
	SpanToken       = "token"
	SpanImageFetch  = "image"
	SpanUploadImage = "uploadimg"
	SpanAddDraft    = "draft/add"
)

// Info 는 하나의 /sync 요청에 대한 트레이싱 정보를 담는다.
// spanSeq 는 같은 요청 안의 outbound 호출(token, 이미지, uploadimg, draft)마다 1씩 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID 는 하이픈 없는 UUIDv4 문자열을 반환한다.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	info := &Info{RequestID: requestID, spanSeq: initialSpan}
	return context.WithValue(ctx, ctxKeyTrace, info)
}

// WithSpanLabel 은 ctx 로 나가는 호출에 종류 이름을 붙인다. span 번호 시퀀스는 그대로 공유한다.
func WithSpanLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, ctxKeySpanLabel, label)
}

func SpanLabelFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxKeySpanLabel).(string)
	return v
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

// CurrentSpanID 는 현재 span 값을 문자열로 반환한다. 증가시키지 않는다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID 는 spanSeq 를 1 증가시키고 (requestID, spanID) 를 반환한다.
// 미들웨어 밖에서 호출되면 새 requestID 와 span "1" 을 돌려준다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}
