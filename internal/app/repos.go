package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/data/repos"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type Repos struct {
	Survey          repos.SurveyRepo
	Participant     repos.ParticipantRepo
	SurveyResponse  repos.SurveyResponseRepo
	Coordinate      repos.CoordinateRepo
	PromptResponse  repos.PromptResponseRepo
	CancelledPrompt repos.CancelledPromptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Survey:          repos.NewSurveyRepo(db, log),
		Participant:     repos.NewParticipantRepo(db, log),
		SurveyResponse:  repos.NewSurveyResponseRepo(db, log),
		Coordinate:      repos.NewCoordinateRepo(db, log),
		PromptResponse:  repos.NewPromptResponseRepo(db, log),
		CancelledPrompt: repos.NewCancelledPromptRepo(db, log),
	}
}
