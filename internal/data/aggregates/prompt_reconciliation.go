package aggregates

import (
	"time"

	"github.com/yungbote/itinerum-backend/internal/data/repos"
	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

// promptReconciler keeps every event uuid in exactly one of absent, cancelled
// or answered. Answered is terminal: recording an answer deletes any cancelled
// row of the same uuid, and a cancelled entry never lands on an answered uuid.
type promptReconciler struct {
	prompts   repos.PromptResponseRepo
	cancelled repos.CancelledPromptRepo
}

type answeredOutcome struct {
	Inserted int
	Edited   int
	Removed  int
	// UUIDs holds every event uuid answered by this batch.
	UUIDs map[string]struct{}
}

type promptKey struct {
	uuid string
	num  int
}

// applyAnswered upserts rows by (uuid, num). Rows already stored are edited in
// place and stamped with editedAt.
func (r promptReconciler) applyAnswered(dbc dbctx.Context, participant *mobile.MobileUser, rows []*mobile.PromptResponse, editedAt time.Time) (answeredOutcome, error) {
	const op = "ingestion.prompts"
	out := answeredOutcome{UUIDs: map[string]struct{}{}}
	if len(rows) == 0 {
		return out, nil
	}

	// Last submission of a key within one request wins, first position kept.
	order := make([]promptKey, 0, len(rows))
	latest := make(map[promptKey]*mobile.PromptResponse, len(rows))
	uuids := make([]string, 0, len(rows))
	for _, row := range rows {
		k := promptKey{uuid: row.PromptUUID, num: row.PromptNum}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = row
		if _, seen := out.UUIDs[row.PromptUUID]; !seen {
			out.UUIDs[row.PromptUUID] = struct{}{}
			uuids = append(uuids, row.PromptUUID)
		}
	}

	existing, err := r.prompts.GetByUUIDs(dbc, uuids)
	if err != nil {
		return out, err
	}
	stored := make(map[promptKey]*mobile.PromptResponse, len(existing))
	for _, e := range existing {
		if e.MobileID != participant.ID {
			return out, domainagg.Validationf(op, "Prompt %s belongs to another participant.", e.PromptUUID)
		}
		stored[promptKey{uuid: e.PromptUUID, num: e.PromptNum}] = e
	}

	fresh := make([]*mobile.PromptResponse, 0, len(order))
	for _, k := range order {
		row := latest[k]
		row.SurveyID = participant.SurveyID
		row.MobileID = participant.ID
		if prev, ok := stored[k]; ok {
			if err := r.prompts.UpdateAnswer(dbc, prev.ID, row, editedAt); err != nil {
				return out, err
			}
			out.Edited++
			continue
		}
		fresh = append(fresh, row)
	}
	if len(fresh) > 0 {
		if _, err := r.prompts.Create(dbc, fresh); err != nil {
			return out, err
		}
		out.Inserted = len(fresh)
	}

	removed, err := r.cancelled.DeleteByUUIDs(dbc, uuids)
	if err != nil {
		return out, err
	}
	out.Removed = int(removed)
	return out, nil
}

// applyCancelled inserts the entries PlanCancelled keeps. A unique violation
// from a concurrent writer downgrades the entry to a skipped duplicate.
func (r promptReconciler) applyCancelled(dbc dbctx.Context, participant *mobile.MobileUser, rows []*mobile.CancelledPromptResponse, answeredInRequest map[string]struct{}) ([]domainagg.CancelledOutcome, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	uuids := make([]string, 0, len(rows))
	for _, row := range rows {
		uuids = append(uuids, row.PromptUUID)
	}

	storedAnswered, err := r.prompts.GetByUUIDs(dbc, uuids)
	if err != nil {
		return nil, err
	}
	storedCancelled, err := r.cancelled.GetByUUIDs(dbc, uuids)
	if err != nil {
		return nil, err
	}
	answered := make(map[string]struct{}, len(answeredInRequest)+len(storedAnswered))
	for u := range answeredInRequest {
		answered[u] = struct{}{}
	}
	for _, p := range storedAnswered {
		answered[p.PromptUUID] = struct{}{}
	}
	cancelled := make(map[string]struct{}, len(storedCancelled))
	for _, c := range storedCancelled {
		cancelled[c.PromptUUID] = struct{}{}
	}

	outcomes := PlanCancelled(rows, answered, cancelled)
	for i, row := range rows {
		if outcomes[i].Result != domainagg.CancelledInserted {
			continue
		}
		row.SurveyID = participant.SurveyID
		row.MobileID = participant.ID
		wrote, err := r.cancelled.InsertIgnoreDuplicate(dbc, row)
		if err != nil {
			return nil, err
		}
		if !wrote {
			outcomes[i] = domainagg.CancelledOutcome{
				PromptUUID: row.PromptUUID,
				Result:     domainagg.CancelledSkippedDuplicate,
				Reason:     "already cancelled",
			}
		}
	}
	return outcomes, nil
}

// PlanCancelled classifies each incoming cancelled entry, in order, against
// the set of answered uuids (stored and same-request) and the uuids already
// cancelled in storage. It does no I/O.
func PlanCancelled(incoming []*mobile.CancelledPromptResponse, answered, storedCancelled map[string]struct{}) []domainagg.CancelledOutcome {
	out := make([]domainagg.CancelledOutcome, 0, len(incoming))
	// cancelled grows as entries are accepted, so a repeat within the batch
	// sees its earlier twin.
	cancelled := make(map[string]struct{}, len(storedCancelled)+len(incoming))
	for u := range storedCancelled {
		cancelled[u] = struct{}{}
	}
	for _, row := range incoming {
		o := domainagg.CancelledOutcome{}
		if row == nil || row.PromptUUID == "" {
			o.Result = domainagg.CancelledRejected
			o.Reason = "missing prompt uuid"
			out = append(out, o)
			continue
		}
		o.PromptUUID = row.PromptUUID
		switch StateOf(row.PromptUUID, answered, cancelled) {
		case domainagg.PromptAnswered:
			o.Result = domainagg.CancelledSkippedAnswered
			o.Reason = "prompt already answered"
		case domainagg.PromptCancelled:
			o.Result = domainagg.CancelledSkippedDuplicate
			o.Reason = "already cancelled"
		default:
			o.Result = domainagg.CancelledInserted
			cancelled[row.PromptUUID] = struct{}{}
		}
		out = append(out, o)
	}
	return out
}

// StateOf reports the reconciliation state of one uuid. Answered dominates.
func StateOf(uuid string, answered, cancelled map[string]struct{}) domainagg.PromptState {
	if _, ok := answered[uuid]; ok {
		return domainagg.PromptAnswered
	}
	if _, ok := cancelled[uuid]; ok {
		return domainagg.PromptCancelled
	}
	return domainagg.PromptAbsent
}
