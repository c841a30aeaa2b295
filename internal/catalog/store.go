package catalog

import (
	"context"
	"fmt"

	"github.com/streamforge/bpctl/internal/blueprint"
)

// Store is persistent storage for streamlet descriptors, keyed by class
// name. Descriptors added to the store are used as the verification
// catalog when no catalog file is given.
type Store interface {
	// Open initializes the store and makes it ready for use.
	Open() error

	// Close closes the store and releases any resources.
	Close() error

	// Put stores a descriptor, replacing any with the same class name.
	Put(ctx context.Context, d blueprint.StreamletDescriptor) error

	// Get retrieves a descriptor by class name.
	Get(ctx context.Context, className string) (*blueprint.StreamletDescriptor, error)

	// List retrieves all descriptors, ordered by class name.
	List(ctx context.Context) ([]blueprint.StreamletDescriptor, error)

	// Delete removes a descriptor by class name.
	Delete(ctx context.Context, className string) error
}

// ErrDescriptorNotFound is returned when no descriptor with the given
// class name exists in the store.
type ErrDescriptorNotFound struct {
	ClassName string
}

func (e ErrDescriptorNotFound) Error() string {
	return fmt.Sprintf("streamlet descriptor not found: %s", e.ClassName)
}
