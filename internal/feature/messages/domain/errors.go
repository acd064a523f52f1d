// Package domain defines domain-level errors for the messages feature.
package domain

import "messagely/internal/shared/apperr"

var (
	// ErrMessageNotFound indicates that no message exists with the given id.
	ErrMessageNotFound = apperr.New(apperr.NotFound, "message not found")

	// ErrMessageForbidden is returned when the requester is neither sender nor recipient.
	// Unknown ids produce the same error so existence is not observable.
	ErrMessageForbidden = apperr.New(apperr.Forbidden, "not allowed to view this message")

	// ErrNotRecipient is returned when someone other than the recipient marks a message read.
	ErrNotRecipient = apperr.New(apperr.Forbidden, "only the recipient can mark a message as read")

	// ErrUnknownRecipient indicates that to_username does not name a registered user.
	ErrUnknownRecipient = apperr.New(apperr.Validation, "recipient does not exist")

	// ErrEmptyBody indicates a blank message body.
	ErrEmptyBody = apperr.New(apperr.Validation, "message body must not be empty")
)
