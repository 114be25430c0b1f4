package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestSpanSequence(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-1", 0)

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "0", CurrentSpanID(ctx))

	for _, want := range []string{"1", "2", "3"} {
		reqID, spanID := NextSpanID(ctx)
		assert.Equal(t, "req-1", reqID)
		assert.Equal(t, want, spanID)
	}
	assert.Equal(t, "3", CurrentSpanID(ctx))
}

func TestNextSpanIDWithoutTrace(t *testing.T) {
	reqID, spanID := NextSpanID(context.Background())

	assert.NotEmpty(t, reqID)
	assert.Equal(t, "1", spanID)
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "0", CurrentSpanID(context.Background()))
}

func TestSpanLabelSharesSequence(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-2", 0)
	assert.Equal(t, "", SpanLabelFromContext(ctx))

	tokenCtx := WithSpanLabel(ctx, SpanToken)
	draftCtx := WithSpanLabel(ctx, SpanAddDraft)
	assert.Equal(t, SpanToken, SpanLabelFromContext(tokenCtx))
	assert.Equal(t, SpanAddDraft, SpanLabelFromContext(draftCtx))
	assert.Equal(t, "", SpanLabelFromContext(ctx))

	_, first := NextSpanID(tokenCtx)
	_, second := NextSpanID(draftCtx)
	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
	assert.Equal(t, "req-2", RequestIDFromContext(draftCtx))
}
