package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrAlreadyRegistered   = errors.New("subscription is already registered for this firewall")
	ErrRunInProgress       = errors.New("a reconciliation run is already in progress")
	ErrEmptySnapshot       = errors.New("staged snapshot is empty")
	ErrInvalidOfferingType = errors.New("invalid offering_type, must be 'sql' or 'storage'")
)

// notFoundError distinguishes a missing entity from an infrastructure
// failure so handlers can map it to a 404.
type notFoundError struct {
	entity string
	id     uuid.UUID
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.entity, e.id)
}

func NewNotFoundError(entity string, id uuid.UUID) error {
	return &notFoundError{entity: entity, id: id}
}

func IsNotFoundError(err error) bool {
	var nf *notFoundError
	return errors.As(err, &nf)
}
