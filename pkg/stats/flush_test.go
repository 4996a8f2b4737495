package stats

import (
	"context"
	"testing"
)

func TestFlushScheduler_Flush(t *testing.T) {
	s := NewStore(nil, []float64{1})
	s.Histogram("h").RecordValue(0.5)

	fs := NewFlushScheduler(s, "")
	if !fs.LastFlush().IsZero() {
		t.Errorf("LastFlush() = %v before any flush, want zero", fs.LastFlush())
	}
	var order []string
	fs.OnFlush(func() { order = append(order, "first") })
	fs.OnFlush(func() { order = append(order, "second") })

	fs.Flush()

	if !s.Histogram("h").Used() {
		t.Error("histogram not merged by Flush")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hooks ran as %v, want [first second]", order)
	}
	if fs.Flushes() != 1 {
		t.Errorf("Flushes() = %d, want 1", fs.Flushes())
	}
	if fs.LastFlush().IsZero() {
		t.Error("LastFlush() is zero after Flush")
	}
}

func TestFlushScheduler_Start(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
		wantNext bool
	}{
		{"empty schedule", "", false, false},
		{"every", "@every 5s", false, true},
		{"cron", "*/5 * * * *", false, true},
		{"invalid", "not a schedule", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFlushScheduler(NewStore(nil, nil), tt.schedule)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := fs.Start(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			defer fs.Stop()

			if got := fs.NextRun() != nil; got != tt.wantNext {
				t.Errorf("NextRun() set = %v, want %v", got, tt.wantNext)
			}
		})
	}
}

func TestFlushScheduler_StartTwice(t *testing.T) {
	fs := NewFlushScheduler(NewStore(nil, nil), "@every 1h")
	if err := fs.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer fs.Stop()

	if err := fs.Start(context.Background()); err == nil {
		t.Error("second Start() error = nil, want error")
	}
}
