// Package workflow tracks the two-step remote flows (registration and
// password reset) for one session.
package workflow

import (
	"fmt"

	"github.com/dmitrijs2005/postapp/internal/client/models"
	"github.com/dmitrijs2005/postapp/internal/common"
)

// State of a Tracker.
type State int

const (
	Idle State = iota
	Step1Pending
)

func (s State) String() string {
	if s == Step1Pending {
		return "step1-pending"
	}
	return "idle"
}

// Tracker holds at most one pending workflow. The zero value is Idle.
// It is not safe for concurrent use; each session owns its own.
type Tracker struct {
	pending *models.PendingWorkflow
}

func (t *Tracker) State() State {
	if t.pending == nil {
		return Idle
	}
	return Step1Pending
}

// Pending returns a copy of the pending workflow, if any.
func (t *Tracker) Pending() (models.PendingWorkflow, bool) {
	if t.pending == nil {
		return models.PendingWorkflow{}, false
	}
	return *t.pending, true
}

// PendingKind reports whether a workflow of kind k is pending.
func (t *Tracker) PendingKind(k models.WorkflowKind) bool {
	return t.pending != nil && t.pending.Kind == k
}

// Begin records a successful step 1. It fails with common.ErrWorkflowPending
// if another workflow has not been finished or abandoned.
func (t *Tracker) Begin(w models.PendingWorkflow) error {
	if t.pending != nil {
		return fmt.Errorf("%w: %s for %s", common.ErrWorkflowPending, t.pending.Kind, t.pending.UserName)
	}
	t.pending = &w
	return nil
}

// Take hands the pending workflow of kind k to step 2 and returns the
// tracker to Idle. Without a matching pending workflow it fails with
// common.ErrNoPendingWorkflow and nothing changes.
func (t *Tracker) Take(k models.WorkflowKind) (models.PendingWorkflow, error) {
	if t.pending == nil || t.pending.Kind != k {
		return models.PendingWorkflow{}, fmt.Errorf("%w: %s", common.ErrNoPendingWorkflow, k)
	}
	w := *t.pending
	t.pending = nil
	return w, nil
}

// Abandon drops any pending workflow.
func (t *Tracker) Abandon() {
	t.pending = nil
}

// Snapshot and Restore move the tracker state through a session store.
func (t *Tracker) Snapshot() *models.PendingWorkflow {
	if t.pending == nil {
		return nil
	}
	w := *t.pending
	return &w
}

func (t *Tracker) Restore(w *models.PendingWorkflow) {
	if w == nil {
		t.pending = nil
		return
	}
	c := *w
	t.pending = &c
}
