package engine

import (
	"github.com/google/uuid"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// Compile-time interface check.
var _ domain.IDGenerator = UUIDGenerator{}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
