package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"invariant sentinel", InvariantError("count mismatch"), domainagg.CodeInvariantViolation},
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg not null", &pgconn.PgError{Code: "23502"}, domainagg.CodeValidation},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: cancelled_prompt_responses.prompt_uuid"), domainagg.CodeConflict},
		{"sqlite busy", errors.New("database is locked"), domainagg.CodeRetryable},
		{"other", errors.New("disk full"), domainagg.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domainagg.CodeOf(MapError("op", tt.err)); got != tt.want {
				t.Fatalf("want=%s got=%s", tt.want, got)
			}
		})
	}
}

func TestMapErrorPassesAggregateErrorsThrough(t *testing.T) {
	in := domainagg.Validationf("ingest.Parse", "UUID must be supplied. No action taken.")
	if out := MapError("ingestion.apply", in); out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
	wrapped := fmt.Errorf("phase survey: %w", in)
	out := MapError("ingestion.apply", wrapped)
	if domainagg.MessageOf(out) != "UUID must be supplied. No action taken." {
		t.Fatalf("wrapped message lost: %v", out)
	}
}

func TestMapErrorKeepsDriverTextOutOfMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code domainagg.ErrorCode
	}{
		{"pg unique", &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "idx_prompt_uuid_num"`}, domainagg.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: cancelled_prompt_responses.prompt_uuid"), domainagg.CodeConflict},
		{"pg fk", &pgconn.PgError{Code: "23503", Message: `insert violates foreign key constraint "fk_mobile_users"`}, domainagg.CodePreconditionFailed},
		{"other", errors.New("write tcp 10.0.0.4:5432: broken pipe"), domainagg.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError("ingestion.apply", tt.err)
			if got := domainagg.CodeOf(mapped); got != tt.code {
				t.Fatalf("code: want=%s got=%s", tt.code, got)
			}
			msg := domainagg.MessageOf(mapped)
			if msg != domainagg.ClientMessage(tt.code) {
				t.Fatalf("message: want=%q got=%q", domainagg.ClientMessage(tt.code), msg)
			}
			if strings.Contains(msg, "constraint") || strings.Contains(msg, "tcp") {
				t.Fatalf("driver text leaked: %q", msg)
			}
			if !errors.Is(mapped, tt.err) {
				t.Fatalf("cause lost")
			}
		})
	}
}
