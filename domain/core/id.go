package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ResultID identifies a stored q-value result
type ResultID ID

func NewResultID() ResultID { return ResultID(NewID()) }

func (id ResultID) String() string { return ID(id).String() }
func (id ResultID) IsEmpty() bool  { return ID(id).IsEmpty() }

// ParseResultID parses a string into ResultID
func ParseResultID(s string) (ResultID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("result ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid result ID %q: %w", s, err)
	}
	return ResultID(s), nil
}
