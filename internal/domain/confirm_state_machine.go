package domain

import (
	"fmt"
)

// ConfirmState is the state of a list's delete confirmation.
type ConfirmState string

const (
	// ConfirmStateIdle means nothing is awaiting confirmation
	ConfirmStateIdle ConfirmState = "Idle"
	// ConfirmStatePending means a record is awaiting confirm or cancel
	ConfirmStatePending ConfirmState = "Pending"
)

// ConfirmTransition is an action on the confirmation flow.
type ConfirmTransition string

const (
	// TransitionRequest asks to delete a record
	TransitionRequest ConfirmTransition = "Request"
	// TransitionConfirm is the user accepting; applied only after the remove and refetch succeed
	TransitionConfirm ConfirmTransition = "Confirm"
	// TransitionFail records a failed remove or refetch
	TransitionFail ConfirmTransition = "Fail"
	// TransitionCancel is the explicit cancel button
	TransitionCancel ConfirmTransition = "Cancel"
	// TransitionDismiss is closing the prompt without choosing
	TransitionDismiss ConfirmTransition = "Dismiss"
)

// ConfirmStateMachine enforces the confirmation lifecycle.
type ConfirmStateMachine struct {
	transitions map[confirmTransitionKey]ConfirmState
}

type confirmTransitionKey struct {
	state      ConfirmState
	transition ConfirmTransition
}

// NewConfirmStateMachine creates the state machine.
// State diagram:
//
//	       Request            Request / Fail
//	[Idle] ───────► [Pending] ◄─────┐
//	  ▲               │  └──────────┘
//	  └─Confirm/Cancel/Dismiss─┘
//
// Cancel and Dismiss on Idle are no-ops. A new Request while Pending
// replaces the target.
func NewConfirmStateMachine() *ConfirmStateMachine {
	sm := &ConfirmStateMachine{
		transitions: make(map[confirmTransitionKey]ConfirmState),
	}

	sm.addTransition(ConfirmStateIdle, TransitionRequest, ConfirmStatePending)
	sm.addTransition(ConfirmStateIdle, TransitionCancel, ConfirmStateIdle)
	sm.addTransition(ConfirmStateIdle, TransitionDismiss, ConfirmStateIdle)
	sm.addTransition(ConfirmStatePending, TransitionRequest, ConfirmStatePending)
	sm.addTransition(ConfirmStatePending, TransitionConfirm, ConfirmStateIdle)
	sm.addTransition(ConfirmStatePending, TransitionFail, ConfirmStatePending)
	sm.addTransition(ConfirmStatePending, TransitionCancel, ConfirmStateIdle)
	sm.addTransition(ConfirmStatePending, TransitionDismiss, ConfirmStateIdle)

	return sm
}

func (sm *ConfirmStateMachine) addTransition(from ConfirmState, via ConfirmTransition, to ConfirmState) {
	sm.transitions[confirmTransitionKey{state: from, transition: via}] = to
}

// Transition returns the next state, or the current state and an error if
// the action is not allowed from it.
func (sm *ConfirmStateMachine) Transition(current ConfirmState, action ConfirmTransition) (ConfirmState, error) {
	next, ok := sm.transitions[confirmTransitionKey{state: current, transition: action}]
	if !ok {
		return current, fmt.Errorf("invalid state transition: cannot %s from %s", action, current)
	}
	return next, nil
}

// CanTransition checks if a transition is valid without performing it.
func (sm *ConfirmStateMachine) CanTransition(current ConfirmState, action ConfirmTransition) bool {
	_, ok := sm.transitions[confirmTransitionKey{state: current, transition: action}]
	return ok
}
