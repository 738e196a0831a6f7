package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate signals a unique constraint violation on insert.
var ErrDuplicate = errors.New("duplicate record")

// ErrEventFull signals that an event reached its participant capacity.
var ErrEventFull = errors.New("event is full")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
