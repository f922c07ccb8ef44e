package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/itinerum-backend/internal/domain"
)

// SeedSurvey creates a survey with one custom question and one prompt.
func SeedSurvey(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Survey {
	tb.Helper()
	s := &types.Survey{
		Name:           name,
		PrettyName:     name,
		Language:       "en",
		SchemaRevision: "generic",
		ContactEmail:   "team@example.org",
		Questions: []*types.SurveyQuestion{{
			QuestionNum:   0,
			QuestionType:  1,
			QuestionLabel: "pets",
			QuestionText:  "Do you own a pet?",
			Choices:       datatypes.NewJSONSlice([]string{"Cat", "Dog", "None"}),
		}},
		Prompts: []*types.PromptQuestion{{
			PromptNum:   0,
			PromptType:  1,
			PromptLabel: "trip_mode",
			PromptText:  "How did you travel?",
			Choices:     datatypes.NewJSONSlice([]string{"Walk", "Bus", "Car"}),
		}},
	}
	s.ApplyDefaults()
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed survey: %v", err)
	}
	return s
}

func SeedParticipant(tb testing.TB, ctx context.Context, tx *gorm.DB, surveyID uuid.UUID, deviceUUID string) *types.MobileUser {
	tb.Helper()
	u := &types.MobileUser{
		SurveyID:        surveyID,
		UUID:            deviceUUID,
		Model:           "iPhone9,3",
		ItinerumVersion: "99",
		OS:              "ios",
		OSVersion:       "11.2",
		CreatedAt:       time.Date(2018, 4, 24, 0, 0, 0, 0, time.UTC),
	}
	if err := tx.WithContext(ctx).Omit("Survey").Create(u).Error; err != nil {
		tb.Fatalf("seed participant: %v", err)
	}
	return u
}

func SeedCancelled(tb testing.TB, ctx context.Context, tx *gorm.DB, u *types.MobileUser, promptUUID string) *types.CancelledPromptResponse {
	tb.Helper()
	c := &types.CancelledPromptResponse{
		SurveyID:    u.SurveyID,
		MobileID:    u.ID,
		PromptUUID:  promptUUID,
		Latitude:    45.5,
		Longitude:   -73.6,
		DisplayedAt: time.Date(2018, 4, 25, 17, 52, 27, 0, time.UTC),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed cancelled prompt: %v", err)
	}
	return c
}

func SeedPromptResponse(tb testing.TB, ctx context.Context, tx *gorm.DB, u *types.MobileUser, promptUUID string, num int, answer string) *types.PromptResponse {
	tb.Helper()
	p := &types.PromptResponse{
		SurveyID:    u.SurveyID,
		MobileID:    u.ID,
		PromptUUID:  promptUUID,
		PromptNum:   num,
		Response:    datatypes.JSON([]byte(`["` + answer + `"]`)),
		DisplayedAt: time.Date(2018, 4, 25, 17, 52, 27, 0, time.UTC),
		RecordedAt:  time.Date(2018, 4, 25, 17, 53, 0, 0, time.UTC),
		Latitude:    45.5,
		Longitude:   -73.6,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prompt response: %v", err)
	}
	return p
}

func PtrTime(v time.Time) *time.Time { return &v }

func PtrBool(v bool) *bool { return &v }
