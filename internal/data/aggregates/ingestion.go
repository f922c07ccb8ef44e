package aggregates

import (
	"context"

	"github.com/yungbote/itinerum-backend/internal/data/repos"
	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

type IngestionAggregateDeps struct {
	Base BaseDeps

	SurveyResponses repos.SurveyResponseRepo
	Coordinates     repos.CoordinateRepo
	Prompts         repos.PromptResponseRepo
	Cancelled       repos.CancelledPromptRepo

	CoordinateBatchSize int
}

type ingestionAggregate struct {
	deps       IngestionAggregateDeps
	loader     coordinateLoader
	reconciler promptReconciler
}

func NewIngestionAggregate(deps IngestionAggregateDeps) domainagg.IngestionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &ingestionAggregate{
		deps:   deps,
		loader: newCoordinateLoader(deps.Coordinates, deps.CoordinateBatchSize),
		reconciler: promptReconciler{
			prompts:   deps.Prompts,
			cancelled: deps.Cancelled,
		},
	}
}

func (a *ingestionAggregate) Contract() domainagg.Contract {
	return domainagg.IngestionAggregateContract
}

func (a *ingestionAggregate) Apply(ctx context.Context, in domainagg.IngestionInput) (domainagg.IngestionResult, error) {
	const op = "ingestion.apply"
	if in.Participant == nil {
		return domainagg.IngestionResult{}, domainagg.NewError(domainagg.CodeValidation, op, "participant is required", nil)
	}
	p := in.Participant
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = a.deps.Base.Now()
	}

	var res domainagg.IngestionResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		res = domainagg.IngestionResult{}

		if in.SurveyAnswers != nil {
			_, out, err := a.deps.SurveyResponses.Upsert(dbc, p.SurveyID, p.ID, in.SurveyAnswers, in.KnownLabels)
			if err != nil {
				return err
			}
			res.SurveyCreated = out.Created
			res.SurveyChanged = out.Changed
		}

		inserted, batches, err := a.loader.InsertCoordinates(dbc, p, in.Coordinates)
		if err != nil {
			return err
		}
		if inserted != len(in.Coordinates) {
			return InvariantError("coordinate insert count mismatch")
		}
		res.CoordinatesInserted = inserted
		res.CoordinateBatches = batches

		// Answered prompts first so same-request cancelled entries see them.
		answered, err := a.reconciler.applyAnswered(dbc, p, in.Answered, receivedAt)
		if err != nil {
			return err
		}
		res.PromptsInserted = answered.Inserted
		res.PromptsEdited = answered.Edited
		res.CancelledRemoved = answered.Removed

		cancelled, err := a.reconciler.applyCancelled(dbc, p, in.Cancelled, answered.UUIDs)
		if err != nil {
			return err
		}
		res.Cancelled = cancelled
		return nil
	})
	if err != nil {
		return domainagg.IngestionResult{}, err
	}

	a.deps.Base.Log.Debug("sync applied",
		"participant_uuid", p.UUID,
		"coordinates", res.CoordinatesInserted,
		"coordinate_batches", res.CoordinateBatches,
		"prompts_inserted", res.PromptsInserted,
		"prompts_edited", res.PromptsEdited,
		"cancelled_inserted", res.CancelledInserted(),
		"cancelled_removed", res.CancelledRemoved,
	)
	return res, nil
}
