package services

import (
	"errors"
	"net/http"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
)

var (
	ErrSurveyNotFound      = errors.New("survey not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

const MsgSurveyNotFound = "Specified survey not found"

// ToAPIError maps aggregate failures onto the HTTP-facing taxonomy. Errors
// that already carry a status pass through.
func ToAPIError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	msg := domainagg.MessageOf(err)
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation:
		return apierr.BadRequest(err, msg)
	case domainagg.CodeNotFound:
		return apierr.Gone(err, msg)
	case domainagg.CodeConflict:
		return apierr.New(http.StatusConflict, string(domainagg.CodeConflict), err, msg)
	case domainagg.CodeRetryable:
		return apierr.New(http.StatusServiceUnavailable, string(domainagg.CodeRetryable), err, "Temporarily unavailable, please retry.")
	default:
		return apierr.Internal(err)
	}
}
