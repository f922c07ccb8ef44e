package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/itinerum-backend/internal/data/repos"
	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

type ParticipantAggregateDeps struct {
	Base         BaseDeps
	Participants repos.ParticipantRepo
}

type participantAggregate struct {
	deps ParticipantAggregateDeps
}

func NewParticipantAggregate(deps ParticipantAggregateDeps) domainagg.ParticipantAggregate {
	deps.Base = deps.Base.withDefaults()
	return &participantAggregate{deps: deps}
}

func (a *participantAggregate) Contract() domainagg.Contract {
	return domainagg.ParticipantAggregateContract
}

// Register creates the participant on first sight of its device uuid and
// otherwise refreshes device metadata only. Survey answers and creation time
// are never reset by re-registration.
func (a *participantAggregate) Register(ctx context.Context, in domainagg.RegisterParticipantInput) (domainagg.RegisterParticipantResult, error) {
	const op = "participant.register"
	in.UUID = strings.TrimSpace(in.UUID)
	if in.UUID == "" {
		return domainagg.RegisterParticipantResult{}, domainagg.Validationf(op, "Missing parameter (uuid)")
	}
	if in.SurveyID == uuid.Nil {
		return domainagg.RegisterParticipantResult{}, domainagg.NewError(domainagg.CodeValidation, op, "survey is required", nil)
	}

	var res domainagg.RegisterParticipantResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		now := a.deps.Base.Now()
		existing, err := a.deps.Participants.GetByUUID(dbc, in.UUID)
		if err != nil {
			return err
		}
		if existing == nil {
			created := in.CreatedAt
			if created.IsZero() {
				created = now
			}
			u, err := a.deps.Participants.Create(dbc, &mobile.MobileUser{
				SurveyID:        in.SurveyID,
				UUID:            in.UUID,
				Model:           in.Model,
				ItinerumVersion: in.ItinerumVersion,
				OS:              in.OS,
				OSVersion:       in.OSVersion,
				CreatedAt:       created,
				UpdatedAt:       now,
			})
			if err != nil {
				return err
			}
			res = domainagg.RegisterParticipantResult{Participant: u, Created: true}
			return nil
		}

		if existing.SurveyID != in.SurveyID {
			a.deps.Base.Log.Warn("device re-registered against a different survey; keeping original",
				"participant_uuid", existing.UUID,
				"survey_id", existing.SurveyID,
				"requested_survey_id", in.SurveyID,
			)
		}
		existing.Model = in.Model
		existing.ItinerumVersion = in.ItinerumVersion
		existing.OS = in.OS
		existing.OSVersion = in.OSVersion
		existing.UpdatedAt = now
		if err := a.deps.Participants.UpdateDeviceFields(dbc, existing); err != nil {
			return err
		}
		res = domainagg.RegisterParticipantResult{Participant: existing}
		return nil
	})
	if err != nil {
		return domainagg.RegisterParticipantResult{}, err
	}
	return res, nil
}
