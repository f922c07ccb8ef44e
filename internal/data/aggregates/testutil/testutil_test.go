package testutil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

func TestHooksRecorderGroupsByOperation(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("ingestion.apply", "success", time.Millisecond)
	h.ObserveOperation("participant.register", "conflict", time.Millisecond)
	h.ObserveOperation("ingestion.apply", "retryable", time.Millisecond)
	h.IncConflict("participant.register")
	h.IncRetry("ingestion.apply")
	h.IncRetry("ingestion.apply")

	if got := fmt.Sprint(h.Statuses("ingestion.apply")); got != "[success retryable]" {
		t.Fatalf("statuses: want=[success retryable] got=%s", got)
	}
	if got := h.Conflicts("participant.register"); got != 1 {
		t.Fatalf("conflicts: want=1 got=%d", got)
	}
	if got := h.Retries("ingestion.apply"); got != 2 {
		t.Fatalf("retries: want=2 got=%d", got)
	}
	if got := h.Statuses("unknown"); len(got) != 0 {
		t.Fatalf("unknown op: want=[] got=%v", got)
	}
}

func TestInjectedTxRunner(t *testing.T) {
	failed := errors.New("injected")
	tests := []struct {
		name      string
		runner    *InjectedTxRunner
		body      error
		wantErr   error
		wantRan   bool
		wantCount [3]int
	}{
		{"commit", &InjectedTxRunner{}, nil, nil, true, [3]int{1, 1, 0}},
		{"body error", &InjectedTxRunner{}, failed, failed, true, [3]int{1, 0, 1}},
		{"fail commit", &InjectedTxRunner{FailCommit: failed}, nil, failed, true, [3]int{1, 0, 1}},
		{"fail begin", &InjectedTxRunner{FailBegin: failed}, nil, failed, false, [3]int{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			err := tt.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
				ran = true
				if dbc.Tx != nil {
					t.Fatalf("nil DB must not open a transaction")
				}
				return tt.body
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Fatalf("err: want=%v got=%v", tt.wantErr, err)
			}
			if ran != tt.wantRan {
				t.Fatalf("body ran: want=%v got=%v", tt.wantRan, ran)
			}
			b, c, r := tt.runner.Counts()
			if got := [3]int{b, c, r}; got != tt.wantCount {
				t.Fatalf("begin/commit/rollback: want=%v got=%v", tt.wantCount, got)
			}
		})
	}
}
