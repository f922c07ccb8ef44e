package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
)

var IngestionAggregateContract = Contract{
	Name:             "Mobile.IngestionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Applies one sync request's four streams in a single transaction; answered prompts are applied before cancelled prompts.",
}

// IngestionAggregate owns the atomic write of a sync request.
//
// Phases run in a fixed order inside one transaction:
//  1. survey answers (label upsert)
//  2. coordinates (batched insert)
//  3. answered prompts (upsert by (uuid, num), delete cancelled rows sharing a uuid)
//  4. cancelled prompts (filtered against phase 3 and stored state)
//
// Write failures return *Error with CodeValidation, CodeNotFound,
// CodeInvariantViolation, CodeRetryable or CodeInternal. Duplicate cancelled
// inserts are not errors; they are reported per entry in CancelledOutcome.
type IngestionAggregate interface {
	Aggregate

	Apply(ctx context.Context, in IngestionInput) (IngestionResult, error)
}

type IngestionInput struct {
	Participant *mobile.MobileUser

	// SurveyAnswers are already decoded; nil means the stream was absent.
	SurveyAnswers map[string]any
	// KnownLabels restricts the stored response to the survey's current labels.
	KnownLabels []string

	Coordinates []*mobile.MobileCoordinate
	Answered    []*mobile.PromptResponse
	Cancelled   []*mobile.CancelledPromptResponse

	// ReceivedAt stamps edited prompt answers. Zero falls back to the
	// aggregate clock.
	ReceivedAt time.Time
}

type IngestionResult struct {
	SurveyCreated bool
	SurveyChanged bool

	CoordinatesInserted int
	CoordinateBatches   int

	PromptsInserted  int
	PromptsEdited    int
	CancelledRemoved int

	Cancelled []CancelledOutcome
}

// Changed reports whether any stream persisted a change.
func (r IngestionResult) Changed() bool {
	return r.SurveyChanged ||
		r.CoordinatesInserted > 0 ||
		r.PromptsInserted > 0 ||
		r.PromptsEdited > 0 ||
		r.CancelledInserted() > 0
}

func (r IngestionResult) CancelledInserted() int {
	n := 0
	for _, c := range r.Cancelled {
		if c.Result == CancelledInserted {
			n++
		}
	}
	return n
}

// CancelledResult is the terminal classification of one incoming cancelled entry.
type CancelledResult string

const (
	CancelledInserted CancelledResult = "inserted"
	// CancelledSkippedDuplicate: a cancelled row for the uuid already exists,
	// either stored or earlier in the same batch.
	CancelledSkippedDuplicate CancelledResult = "skipped_duplicate"
	// CancelledSkippedAnswered: the uuid is answered, in storage or in this request.
	CancelledSkippedAnswered CancelledResult = "skipped_answered"
	CancelledRejected        CancelledResult = "rejected"
)

type CancelledOutcome struct {
	PromptUUID string
	Result     CancelledResult
	Reason     string
}

// PromptState is the per-event-uuid reconciliation state.
type PromptState string

const (
	PromptAbsent    PromptState = "absent"
	PromptCancelled PromptState = "cancelled"
	PromptAnswered  PromptState = "answered"
)
