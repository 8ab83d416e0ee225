package interfaces

import (
	"context"
)

type OptionRepository interface {
	// Get returns the stored value for key, or nil when absent.
	Get(ctx context.Context, key string) (interface{}, error)

	// GetFirst probes keys in order and returns the first non-empty
	// value along with the key it was found under.
	GetFirst(ctx context.Context, keys []string) (interface{}, string, error)

	Set(ctx context.Context, key string, value interface{}) error
}
