package logging

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}
}

func TestExtractContextFields(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want []string
	}{
		{"empty", context.Background(), nil},
		{"request only", WithRequestID(context.Background(), "r1"), []string{"request_id=r1"}},
		{
			"fixed order",
			WithRequestID(WithFormat(WithTraceID(context.Background(), "t1"), "text"), "r1"),
			[]string{"request_id=r1", "trace_id=t1", "format=text"},
		},
		{
			"span",
			WithSpanID(WithTraceID(context.Background(), "t1"), "s1"),
			[]string{"trace_id=t1", "span_id=s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := extractContextFields(tt.ctx)
			if len(fields) != len(tt.want) {
				t.Fatalf("extractContextFields() returned %d fields, want %d", len(fields), len(tt.want))
			}
			for i, f := range fields {
				if got := f.String(); got != tt.want[i] {
					t.Errorf("field[%d] = %s, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithRequestID(context.Background(), "first")
	ctx = WithRequestID(ctx, "second")
	if got := GetRequestID(ctx); got != "second" {
		t.Errorf("GetRequestID() = %q, want second", got)
	}
}
