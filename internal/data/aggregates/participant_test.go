package aggregates

import (
	"context"
	"testing"
	"time"

	aggtest "github.com/yungbote/itinerum-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/itinerum-backend/internal/data/repos"
	"github.com/yungbote/itinerum-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

func TestParticipantRegisterCreatesThenUpdates(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	s := testutil.SeedSurvey(t, ctx, db, "register-agg")
	participants := repos.NewParticipantRepo(db, log)
	agg := NewParticipantAggregate(ParticipantAggregateDeps{
		Base:         BaseDeps{DB: db, Log: log, Now: func() time.Time { return fixedNow }},
		Participants: participants,
	})

	installed := time.Date(2018, 4, 20, 9, 0, 0, 0, time.UTC)
	res, err := agg.Register(ctx, domainagg.RegisterParticipantInput{
		SurveyID: s.ID, UUID: "dev-r", Model: "iPhone", OS: "ios", OSVersion: "11", ItinerumVersion: "99", CreatedAt: installed,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !res.Created || !res.Participant.CreatedAt.Equal(installed) {
		t.Fatalf("create result: %+v", res)
	}

	res, err = agg.Register(ctx, domainagg.RegisterParticipantInput{
		SurveyID: s.ID, UUID: "dev-r", Model: "iPhone X", OS: "ios", OSVersion: "12", ItinerumVersion: "100",
	})
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if res.Created {
		t.Fatalf("re-register created a second participant")
	}
	stored, _ := participants.GetByUUID(dbctx.Context{Ctx: ctx}, "dev-r")
	if stored.Model != "iPhone X" || stored.OSVersion != "12" || !stored.CreatedAt.Equal(installed) {
		t.Fatalf("stored participant: %+v", stored)
	}
	if n, _ := participants.Count(dbctx.Context{Ctx: ctx}, s.ID); n != 1 {
		t.Fatalf("participants want=1 got=%d", n)
	}
}

func TestParticipantRegisterRequiresUUID(t *testing.T) {
	agg := NewParticipantAggregate(ParticipantAggregateDeps{Base: BaseDeps{Runner: &aggtest.InjectedTxRunner{}}})
	_, err := agg.Register(context.Background(), domainagg.RegisterParticipantInput{UUID: " "})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("want validation got=%v", err)
	}
}
