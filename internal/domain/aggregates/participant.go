package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
)

var ParticipantAggregateContract = Contract{
	Name:             "Mobile.ParticipantAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Registers a device against a survey; repeat registrations only refresh device metadata.",
}

// ParticipantAggregate owns participant registration.
type ParticipantAggregate interface {
	Aggregate

	Register(ctx context.Context, in RegisterParticipantInput) (RegisterParticipantResult, error)
}

type RegisterParticipantInput struct {
	SurveyID        uuid.UUID
	UUID            string
	Model           string
	ItinerumVersion string
	OS              string
	OSVersion       string
	// CreatedAt is the device-reported install time; zero means now.
	CreatedAt time.Time
}

type RegisterParticipantResult struct {
	Participant *mobile.MobileUser
	Created     bool
}
