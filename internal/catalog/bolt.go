package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/streamforge/bpctl/internal/blueprint"
	"github.com/streamforge/bpctl/internal/utils/logger"
)

const (
	// DefaultBoltFilePath is the default path for the catalog database.
	DefaultBoltFilePath = "bpctl-catalog.db"

	// DefaultBoltFileMode is the default file mode for the database file.
	DefaultBoltFileMode = 0600

	// DefaultBoltTimeout bounds how long opening the database may block on
	// the file lock.
	DefaultBoltTimeout = 1 * time.Second
)

var descriptorBucket = []byte("descriptors")

// BoltStore is a bbolt-backed Store. Descriptors are stored as JSON,
// keyed by class name.
type BoltStore struct {
	db   *bolt.DB
	path string
	mode os.FileMode
}

// BoltOptions configures a BoltStore.
type BoltOptions struct {
	// Path to the database file.
	Path string
	// FileMode for the database file.
	FileMode os.FileMode
}

// NewBoltStore creates a new BoltStore with the given options.
func NewBoltStore(opts *BoltOptions) *BoltStore {
	if opts == nil {
		opts = &BoltOptions{}
	}
	if opts.Path == "" {
		opts.Path = DefaultBoltFilePath
	}
	if opts.FileMode == 0 {
		opts.FileMode = DefaultBoltFileMode
	}
	return &BoltStore{path: opts.Path, mode: opts.FileMode}
}

// Open opens the database and creates the descriptor bucket.
func (s *BoltStore) Open() error {
	logger.Debug("opening catalog database", zap.String("path", s.path))

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for catalog database: %w", err)
	}

	db, err := bolt.Open(s.path, s.mode, &bolt.Options{Timeout: DefaultBoltTimeout})
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	s.db = db

	err = s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(descriptorBucket)
		return err
	})
	if err != nil {
		s.db.Close()
		return fmt.Errorf("failed to initialize catalog database: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores a descriptor, replacing any with the same class name.
func (s *BoltStore) Put(ctx context.Context, d blueprint.StreamletDescriptor) error {
	logger.Debug("storing descriptor", zap.String("className", d.ClassName))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(descriptorBucket)
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to marshal descriptor: %w", err)
		}
		return b.Put([]byte(d.ClassName), data)
	})
}

// Get retrieves a descriptor by class name.
func (s *BoltStore) Get(ctx context.Context, className string) (*blueprint.StreamletDescriptor, error) {
	var d *blueprint.StreamletDescriptor
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(descriptorBucket).Get([]byte(className))
		if data == nil {
			return ErrDescriptorNotFound{ClassName: className}
		}
		var decoded blueprint.StreamletDescriptor
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Errorf("failed to unmarshal descriptor: %w", err)
		}
		d = &decoded
		return nil
	})
	return d, err
}

// List retrieves all descriptors, ordered by class name. The ordering
// comes from bbolt's key order.
func (s *BoltStore) List(ctx context.Context) ([]blueprint.StreamletDescriptor, error) {
	var out []blueprint.StreamletDescriptor
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(descriptorBucket).ForEach(func(k, v []byte) error {
			var d blueprint.StreamletDescriptor
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("failed to unmarshal descriptor %q: %w", k, err)
			}
			out = append(out, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a descriptor by class name.
func (s *BoltStore) Delete(ctx context.Context, className string) error {
	logger.Debug("deleting descriptor", zap.String("className", className))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(descriptorBucket)
		if b.Get([]byte(className)) == nil {
			return ErrDescriptorNotFound{ClassName: className}
		}
		return b.Delete([]byte(className))
	})
}
