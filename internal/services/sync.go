package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/itinerum-backend/internal/data/repos"
	"github.com/yungbote/itinerum-backend/internal/decoder"
	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/ingest"
	"github.com/yungbote/itinerum-backend/internal/normalization"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
	"github.com/yungbote/itinerum-backend/internal/platform/ctxutil"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

const syncOp = "mobile.sync"

// Per-stream status strings returned to the app.
const (
	MsgNoSurvey           = "No new survey data supplied."
	MsgSurveyUpserted     = "Survey answer for %s upserted."
	MsgNoCoordinates      = "No new coordinates data supplied."
	MsgCoordinatesAdded   = "New coordinates for %s inserted."
	MsgNoPrompts          = "No new prompt answers supplied."
	MsgPromptsAdded       = "New prompt answers for %s inserted."
	MsgNoCancelled        = "No cancelled prompts supplied."
	MsgCancelledAdded     = "New cancelled prompts for %s inserted."
	MsgParticipantMissing = "Could not find survey for %s."
	MsgPromptsUnencodable = "Prompt answers could not be read. No action taken."
)

type SyncOutcome string

const (
	SyncCreated SyncOutcome = "created"
	SyncNoOp    SyncOutcome = "no_op"
)

type SyncMessages struct {
	Survey           string
	Coordinates      string
	Prompts          string
	CancelledPrompts string
}

// Body renders the messages with the app's camelCase stream keys.
func (m SyncMessages) Body() map[string]any {
	body := map[string]any{
		ingest.KeySurvey:      m.Survey,
		ingest.KeyCoordinates: m.Coordinates,
		ingest.KeyPrompts:     m.Prompts,
		ingest.KeyCancelled:   m.CancelledPrompts,
	}
	return normalization.CamelKeys(body).(map[string]any)
}

type SyncResult struct {
	ParticipantUUID string
	Outcome         SyncOutcome
	Messages        SyncMessages
	Ingestion       domainagg.IngestionResult
}

// SyncService applies a participant's sync payload.
type SyncService interface {
	// SyncPayload parses a snake-cased payload and syncs it.
	SyncPayload(ctx context.Context, payload map[string]any) (*SyncResult, error)
	Sync(ctx context.Context, req *ingest.SyncRequest) (*SyncResult, error)
}

type SyncServiceDeps struct {
	Log          *logger.Logger
	Schema       SchemaService
	Participants repos.ParticipantRepo
	Ingestion    domainagg.IngestionAggregate
	Metrics      *observability.Metrics
	Now          func() time.Time
}

type syncService struct {
	log          *logger.Logger
	schema       SchemaService
	participants repos.ParticipantRepo
	ingestion    domainagg.IngestionAggregate
	metrics      *observability.Metrics
	now          func() time.Time
}

func NewSyncService(deps SyncServiceDeps) SyncService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &syncService{
		log:          log.With("service", "SyncService"),
		schema:       deps.Schema,
		participants: deps.Participants,
		ingestion:    deps.Ingestion,
		metrics:      deps.Metrics,
		now:          now,
	}
}

func (s *syncService) SyncPayload(ctx context.Context, payload map[string]any) (*SyncResult, error) {
	req, err := ingest.Parse(payload)
	if err != nil {
		s.observe(ctx, nil, err)
		return nil, ToAPIError(err)
	}
	return s.Sync(ctx, req)
}

func (s *syncService) Sync(ctx context.Context, req *ingest.SyncRequest) (res *SyncResult, err error) {
	ctx, span := observability.StartSpan(ctx, syncOp,
		attribute.Int("sync.coordinates", len(req.Coordinates)),
		attribute.Int("sync.prompts", len(req.Prompts)),
		attribute.Int("sync.cancelled_prompts", len(req.Cancelled)),
	)
	defer func() {
		observability.EndSpan(span, err)
		s.observe(ctx, res, err)
	}()

	participant, err := s.participants.GetByUUID(dbctx.Context{Ctx: ctx}, req.ParticipantUUID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("lookup participant: %w", err))
	}
	if participant == nil {
		return nil, apierr.Gone(
			fmt.Errorf("%w: %s", ErrParticipantNotFound, req.ParticipantUUID),
			fmt.Sprintf(MsgParticipantMissing, req.ParticipantUUID),
		)
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		rd.ParticipantUUID = participant.UUID
	}

	in := domainagg.IngestionInput{Participant: participant, ReceivedAt: s.now()}
	if len(req.SurveyAnswers) > 0 {
		survey, err := s.schema.GetSurvey(ctx, participant.SurveyID)
		if err != nil {
			return nil, err
		}
		resolved, err := s.schema.Resolve(survey)
		if err != nil {
			return nil, err
		}
		decoded, err := decoder.DecodeAll(resolved, req.SurveyAnswers)
		if err != nil {
			return nil, ToAPIError(err)
		}
		in.SurveyAnswers = decoded
		in.KnownLabels = resolved.Labels()
	}

	owner := ingest.Owner{SurveyID: participant.SurveyID, MobileID: participant.ID}
	in.Coordinates, in.Answered, in.Cancelled, err = req.Models(owner)
	if err != nil {
		return nil, ToAPIError(domainagg.NewError(domainagg.CodeValidation, syncOp, MsgPromptsUnencodable, err))
	}

	out, err := s.ingestion.Apply(ctx, in)
	if err != nil {
		return nil, ToAPIError(err)
	}
	return newSyncResult(participant.UUID, out), nil
}

func newSyncResult(participantUUID string, out domainagg.IngestionResult) *SyncResult {
	msgs := SyncMessages{
		Survey:           MsgNoSurvey,
		Coordinates:      MsgNoCoordinates,
		Prompts:          MsgNoPrompts,
		CancelledPrompts: MsgNoCancelled,
	}
	if out.SurveyChanged {
		msgs.Survey = fmt.Sprintf(MsgSurveyUpserted, participantUUID)
	}
	if out.CoordinatesInserted > 0 {
		msgs.Coordinates = fmt.Sprintf(MsgCoordinatesAdded, participantUUID)
	}
	if out.PromptsInserted+out.PromptsEdited > 0 {
		msgs.Prompts = fmt.Sprintf(MsgPromptsAdded, participantUUID)
	}
	if out.CancelledInserted() > 0 {
		msgs.CancelledPrompts = fmt.Sprintf(MsgCancelledAdded, participantUUID)
	}
	outcome := SyncNoOp
	if out.Changed() {
		outcome = SyncCreated
	}
	return &SyncResult{
		ParticipantUUID: participantUUID,
		Outcome:         outcome,
		Messages:        msgs,
		Ingestion:       out,
	}
}

func (s *syncService) observe(ctx context.Context, res *SyncResult, err error) {
	version := "unknown"
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.APIVersion != "" {
		version = rd.APIVersion
	}
	if err != nil {
		outcome := "internal"
		if ae, ok := apierr.As(ToAPIError(err)); ok && ae.Code != "" {
			outcome = ae.Code
		}
		s.metrics.ObserveSync(version, outcome)
		return
	}
	if res == nil {
		return
	}
	s.metrics.ObserveSync(version, string(res.Outcome))
	s.metrics.AddRowsPersisted("coordinates", int64(res.Ingestion.CoordinatesInserted))
	s.metrics.AddRowsPersisted("prompts", int64(res.Ingestion.PromptsInserted+res.Ingestion.PromptsEdited))
	s.metrics.AddRowsPersisted("cancelled_prompts", int64(res.Ingestion.CancelledInserted()))
	s.metrics.AddCoordinateBatches(res.Ingestion.CoordinateBatches)
	for _, c := range res.Ingestion.Cancelled {
		s.metrics.IncCancelledResult(string(c.Result))
	}
}
