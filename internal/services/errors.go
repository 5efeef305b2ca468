package services

import "errors"

var (
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrCreatorNotFound        = errors.New("creator not found")
	ErrOfferNotFound          = errors.New("offer not found")
	ErrOfferNotPending        = errors.New("offer is not pending")
	ErrEventAlreadyProcessed  = errors.New("event already processed")
	ErrStorageUnavailable     = errors.New("storage service is not configured")
)
