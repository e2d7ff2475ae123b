package services

import (
	"github.com/fahmidurshanto/custom-cms/internal/domain"
)

// ConfirmSnapshot is the render-ready state of a confirmation.
type ConfirmSnapshot struct {
	Pending bool   `json:"pending"`
	ID      string `json:"id,omitempty"`
	Label   string `json:"label,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ConfirmationFlow gates a destructive action behind an explicit confirm.
// One per list; a new request replaces the pending one.
type ConfirmationFlow struct {
	sm       *domain.ConfirmStateMachine
	state    domain.ConfirmState
	targetID string
	label    string
	lastErr  string
}

func NewConfirmationFlow() *ConfirmationFlow {
	return &ConfirmationFlow{
		sm:    domain.NewConfirmStateMachine(),
		state: domain.ConfirmStateIdle,
	}
}

func (cf *ConfirmationFlow) transition(action domain.ConfirmTransition) error {
	next, err := cf.sm.Transition(cf.state, action)
	if err != nil {
		return err
	}
	cf.state = next
	if next == domain.ConfirmStateIdle {
		cf.targetID, cf.label, cf.lastErr = "", "", ""
	}
	return nil
}

// Request makes id the pending target.
func (cf *ConfirmationFlow) Request(id, label string) error {
	if err := cf.transition(domain.TransitionRequest); err != nil {
		return err
	}
	cf.targetID, cf.label, cf.lastErr = id, label, ""
	return nil
}

// Target returns the pending id; ok is false when idle.
func (cf *ConfirmationFlow) Target() (string, bool) {
	return cf.targetID, cf.state == domain.ConfirmStatePending
}

// Succeed returns to Idle after the action completed for id. A newer
// request for another id is left pending.
func (cf *ConfirmationFlow) Succeed(id string) error {
	if !cf.sm.CanTransition(cf.state, domain.TransitionConfirm) || cf.targetID != id {
		return nil
	}
	return cf.transition(domain.TransitionConfirm)
}

// Fail keeps the confirmation pending with the error shown next to it.
func (cf *ConfirmationFlow) Fail(id string, err error) error {
	if !cf.sm.CanTransition(cf.state, domain.TransitionFail) || cf.targetID != id {
		return nil
	}
	if terr := cf.transition(domain.TransitionFail); terr != nil {
		return terr
	}
	cf.lastErr = err.Error()
	return nil
}

func (cf *ConfirmationFlow) Cancel() error {
	return cf.transition(domain.TransitionCancel)
}

func (cf *ConfirmationFlow) Dismiss() error {
	return cf.transition(domain.TransitionDismiss)
}

func (cf *ConfirmationFlow) State() domain.ConfirmState {
	return cf.state
}

func (cf *ConfirmationFlow) Snapshot() ConfirmSnapshot {
	return ConfirmSnapshot{
		Pending: cf.state == domain.ConfirmStatePending,
		ID:      cf.targetID,
		Label:   cf.label,
		Error:   cf.lastErr,
	}
}
