package cache

import (
	"golang.org/x/net/context"
)

// NewPersistentCache creates a StateCache which persists entries to a bbolt database
// under workingDir, keyed to the backing endpoint and block height. The database is
// closed when the provided context is cancelled.
func NewPersistentCache(ctx context.Context, workingDir string, rpcAddr string, height uint64) (StateCache, error) {
	return newPersistentCache(ctx, workingDir, rpcAddr, height)
}

// NewNonPersistentCache creates a StateCache which holds entries in memory only.
func NewNonPersistentCache() (StateCache, error) {
	return newNonPersistentStateCache(), nil
}
