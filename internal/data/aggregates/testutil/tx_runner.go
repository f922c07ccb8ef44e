package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs aggregate writes inside a real transaction on DB and
// can fail them before the body runs or after it succeeds. A failure after the
// body rolls the transaction back, so every row the body wrote disappears.
// With a nil DB the body runs without a Tx.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin  error
	FailCommit error

	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
}

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.bump(&r.begins)
	if r.FailBegin != nil {
		return r.FailBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return r.FailCommit
	}

	var err error
	if r.DB == nil {
		err = body(dbctx.Context{Ctx: ctx})
	} else {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return body(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	}
	if err != nil {
		r.bump(&r.rollbacks)
		return err
	}
	r.bump(&r.commits)
	return nil
}

// Counts reports begun, committed and rolled back transactions.
func (r *InjectedTxRunner) Counts() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins, r.commits, r.rollbacks
}

func (r *InjectedTxRunner) bump(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
