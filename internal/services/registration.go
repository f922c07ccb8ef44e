package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/ingest"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
	"github.com/yungbote/itinerum-backend/internal/schema"
)

const MsgUserRegistered = "New user successfully registered."

// RegisterPayload is what the app receives after registering. JSON keys are
// the camelCase names the app expects.
type RegisterPayload struct {
	User               string                     `json:"user"`
	UUID               string                     `json:"uuid"`
	ContactEmail       string                     `json:"contactEmail"`
	DefaultAvatar      string                     `json:"defaultAvatar"`
	Avatar             string                     `json:"avatar"`
	Survey             []schema.FormattedQuestion `json:"survey"`
	Prompt             PromptSettings             `json:"prompt"`
	Lang               string                     `json:"lang"`
	AboutText          string                     `json:"aboutText"`
	TermsOfService     string                     `json:"termsOfService"`
	SurveyName         string                     `json:"surveyName"`
	RecordAcceleration bool                       `json:"recordAcceleration"`
	RecordMode         bool                       `json:"recordMode"`
}

type PromptSettings struct {
	MaxDays    int                      `json:"maxDays"`
	MaxPrompts int                      `json:"maxPrompts"`
	NumPrompts int                      `json:"numPrompts"`
	Prompts    []schema.FormattedPrompt `json:"prompts"`
}

type RegistrationService interface {
	Register(ctx context.Context, req *ingest.RegisterRequest) (*RegisterPayload, error)
}

type RegistrationServiceDeps struct {
	Log          *logger.Logger
	Schema       SchemaService
	Participants domainagg.ParticipantAggregate
	Metrics      *observability.Metrics

	AssetsRoute           string
	DefaultAvatarFilename string
}

type registrationService struct {
	log           *logger.Logger
	schema        SchemaService
	participants  domainagg.ParticipantAggregate
	metrics       *observability.Metrics
	defaultAvatar string
}

func NewRegistrationService(deps RegistrationServiceDeps) RegistrationService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &registrationService{
		log:           log.With("service", "RegistrationService"),
		schema:        deps.Schema,
		participants:  deps.Participants,
		metrics:       deps.Metrics,
		defaultAvatar: DefaultAvatarPath(deps.AssetsRoute, deps.DefaultAvatarFilename),
	}
}

// DefaultAvatarPath joins the assets route and avatar file name.
func DefaultAvatarPath(assetsRoute, filename string) string {
	return strings.TrimRight(assetsRoute, "/") + "/static/" + strings.TrimLeft(filename, "/")
}

func (s *registrationService) Register(ctx context.Context, req *ingest.RegisterRequest) (payload *RegisterPayload, err error) {
	ctx, span := observability.StartSpan(ctx, "mobile.register", attribute.String("survey.name", req.SurveyName))
	defer func() { observability.EndSpan(span, err) }()

	survey, err := s.schema.FindSurvey(ctx, req.SurveyName)
	if err != nil {
		return nil, err
	}

	var createdAt time.Time
	if req.User.CreatedAt != nil {
		createdAt = req.User.CreatedAt.Time
	}
	res, err := s.participants.Register(ctx, domainagg.RegisterParticipantInput{
		SurveyID:        survey.ID,
		UUID:            req.User.UUID,
		Model:           req.User.Model,
		ItinerumVersion: req.User.ItinerumVersion,
		OS:              req.User.OS,
		OSVersion:       req.User.OSVersion,
		CreatedAt:       createdAt,
	})
	if err != nil {
		return nil, ToAPIError(err)
	}
	s.metrics.IncRegistration(res.Created)

	formatted, err := s.schema.Formatted(ctx, survey)
	if err != nil {
		return nil, err
	}

	maxPrompts := survey.MaxPrompts
	if len(formatted.Prompts) == 0 {
		maxPrompts = 0
	}
	s.log.Info("participant registered",
		"participant_uuid", res.Participant.UUID,
		"survey", survey.Name,
		"created", res.Created,
	)
	return &RegisterPayload{
		User:          MsgUserRegistered,
		UUID:          res.Participant.UUID,
		ContactEmail:  survey.ContactEmail,
		DefaultAvatar: s.defaultAvatar,
		Avatar:        survey.AvatarURI,
		Survey:        formatted.Questions,
		Prompt: PromptSettings{
			MaxDays:    survey.MaxSurveyDays,
			MaxPrompts: maxPrompts,
			NumPrompts: len(formatted.Prompts),
			Prompts:    formatted.Prompts,
		},
		Lang:               survey.Language,
		AboutText:          survey.AboutText,
		TermsOfService:     survey.TermsOfService,
		SurveyName:         survey.PrettyName,
		RecordAcceleration: survey.RecordAcceleration,
		RecordMode:         survey.RecordMode,
	}, nil
}
