package users

import "errors"

var (
	// ErrInvalidProfile indicates a malformed user profile document.
	ErrInvalidProfile = errors.New("invalid user profile")

	// ErrEmptyUserID indicates a profile without a user identifier.
	ErrEmptyUserID = errors.New("profile has no user id")
)
