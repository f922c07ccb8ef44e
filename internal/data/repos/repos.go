package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/data/repos/mobile"
	"github.com/yungbote/itinerum-backend/internal/data/repos/survey"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type SurveyRepo = survey.SurveyRepo

type ParticipantRepo = mobile.ParticipantRepo
type SurveyResponseRepo = mobile.SurveyResponseRepo
type CoordinateRepo = mobile.CoordinateRepo
type PromptResponseRepo = mobile.PromptResponseRepo
type CancelledPromptRepo = mobile.CancelledPromptRepo

type UpsertOutcome = mobile.UpsertOutcome

func NewSurveyRepo(db *gorm.DB, baseLog *logger.Logger) SurveyRepo {
	return survey.NewSurveyRepo(db, baseLog)
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return mobile.NewParticipantRepo(db, baseLog)
}
func NewSurveyResponseRepo(db *gorm.DB, baseLog *logger.Logger) SurveyResponseRepo {
	return mobile.NewSurveyResponseRepo(db, baseLog)
}
func NewCoordinateRepo(db *gorm.DB, baseLog *logger.Logger) CoordinateRepo {
	return mobile.NewCoordinateRepo(db, baseLog)
}
func NewPromptResponseRepo(db *gorm.DB, baseLog *logger.Logger) PromptResponseRepo {
	return mobile.NewPromptResponseRepo(db, baseLog)
}
func NewCancelledPromptRepo(db *gorm.DB, baseLog *logger.Logger) CancelledPromptRepo {
	return mobile.NewCancelledPromptRepo(db, baseLog)
}
