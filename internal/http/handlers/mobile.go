package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/yungbote/itinerum-backend/internal/http/response"
	"github.com/yungbote/itinerum-backend/internal/ingest"
	"github.com/yungbote/itinerum-backend/internal/normalization"
	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
	"github.com/yungbote/itinerum-backend/internal/platform/ctxutil"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
	"github.com/yungbote/itinerum-backend/internal/services"
)

const (
	ResourceCreateUser = "MobileCreateUser"
	ResourceUpdateData = "MobileUpdateData"

	StatusDeprecatedV1 = "Warning (deprecated): API v1 will soon be phased out. Please refer to documentation for v2 calls."

	maxBodyBytes = 64 << 20
)

type MobileHandlerDeps struct {
	Log          *logger.Logger
	Registration services.RegistrationService
	Sync         services.SyncService

	// Version is the metrics/log label ("v1", "v2"); Root is the route
	// prefix used for the Location header.
	Version    string
	Root       string
	StatusText string
}

// MobileHandler serves one API version's create and update routes.
type MobileHandler struct {
	log          *logger.Logger
	registration services.RegistrationService
	sync         services.SyncService
	version      string
	root         string
	statusText   string
}

func NewMobileHandler(deps MobileHandlerDeps) *MobileHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &MobileHandler{
		log:          log.With("handler", "MobileHandler", "api_version", deps.Version),
		registration: deps.Registration,
		sync:         deps.Sync,
		version:      deps.Version,
		root:         strings.TrimRight(deps.Root, "/"),
		statusText:   deps.StatusText,
	}
}

// POST <root>/create
func (h *MobileHandler) Create(c *gin.Context) {
	res := response.Resource{Type: ResourceCreateUser, Location: h.root + "/create"}
	h.tag(c)

	payload, err := decodeBody(c)
	if err != nil {
		response.RespondError(c, res, err)
		return
	}
	req, err := ingest.ParseRegister(payload)
	if err != nil {
		response.RespondError(c, res, services.ToAPIError(err))
		return
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		rd.ParticipantUUID = req.User.UUID
		rd.SurveyName = req.SurveyName
	}

	out, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, res, err)
		return
	}
	response.RespondSuccess(c, http.StatusCreated, res, h.statusText, out)
}

// POST <root>/update
func (h *MobileHandler) Update(c *gin.Context) {
	res := response.Resource{Type: ResourceUpdateData, Location: h.root + "/update"}
	h.tag(c)

	payload, err := decodeBody(c)
	if err != nil {
		response.RespondError(c, res, err)
		return
	}
	out, err := h.sync.SyncPayload(c.Request.Context(), payload)
	if err != nil {
		response.RespondError(c, res, err)
		return
	}
	status := http.StatusCreated
	if out.Outcome == services.SyncNoOp {
		status = http.StatusOK
	}
	response.RespondSuccess(c, status, res, h.statusText, out.Messages.Body())
}

func (h *MobileHandler) tag(c *gin.Context) {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		rd.APIVersion = h.version
	}
}

// decodeBody reads a JSON object and snake-cases its keys. Survey answer
// labels are left as the survey defines them.
func decodeBody(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apierr.BadRequest(err, "Request body must be a JSON object.")
		}
		return nil, apierr.BadRequest(err, "Could not decode request body: "+err.Error())
	}
	if body == nil {
		return nil, apierr.BadRequest(nil, "Request body must be a JSON object.")
	}
	return normalization.SnakeKeys(body, ingest.KeySurvey).(map[string]any), nil
}
