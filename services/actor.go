package services

import (
	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/errs"
)

// Actor is the identity a request acts as. AccountID comes from the verified bearer token;
// ProfileID is the profile attached to that account, or uuid.Nil when none exists yet.
type Actor struct {
	AccountID string
	ProfileID uuid.UUID
}

// Anonymous is the actor of an unauthenticated request.
func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Authenticated() bool {
	return a.AccountID != ""
}

func (a Actor) HasProfile() bool {
	return a.ProfileID != uuid.Nil
}

// requireProfile rejects anonymous actors and accounts without a profile.
func (a Actor) requireProfile() error {
	if !a.Authenticated() {
		return errs.NewMissingTokenError()
	}
	if !a.HasProfile() {
		return errs.NewProfileRequiredError()
	}
	return nil
}
