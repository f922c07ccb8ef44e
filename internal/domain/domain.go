package domain

import (
	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
	"github.com/yungbote/itinerum-backend/internal/domain/survey"
)

type Survey = survey.Survey
type SurveyQuestion = survey.SurveyQuestion
type PromptQuestion = survey.PromptQuestion

type MobileUser = mobile.MobileUser
type SurveyResponse = mobile.SurveyResponse
type MobileCoordinate = mobile.MobileCoordinate
type PromptResponse = mobile.PromptResponse
type CancelledPromptResponse = mobile.CancelledPromptResponse

// AllModels lists every persisted type in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Survey{},
		&SurveyQuestion{},
		&PromptQuestion{},
		&MobileUser{},
		&SurveyResponse{},
		&MobileCoordinate{},
		&PromptResponse{},
		&CancelledPromptResponse{},
	}
}
