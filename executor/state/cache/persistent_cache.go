package cache

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/net/context"
)

// cacheBucket is the bbolt bucket holding all cached entries.
var cacheBucket = []byte("cache")

var _ StateCache = (*persistentCache)(nil)

// persistentCache provides a thread-safe cache for storing objects/slots that persists
// the cache to disk. Entries are CBOR-encoded and written in batches once enough writes
// accumulate.
type persistentCache struct {
	memCache *nonPersistentStateCache
	db       *bbolt.DB

	pendingWriteMutex sync.Mutex
	pendingWrites     []pendingWrite
	flushThreshold    int
}

type pendingWrite struct {
	key   []byte
	value []byte
}

func newPersistentCache(ctx context.Context, workingDir string, rpcAddr string, height uint64) (*persistentCache, error) {
	cacheDir, err := createCacheDirectory(workingDir)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create cache directory")
	}
	cacheFile := filepath.Join(cacheDir, getCacheFilename(rpcAddr, height))
	db, err := bbolt.Open(cacheFile, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.WithMessage(err, "could not open cache db")
	}

	// create default bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	p := &persistentCache{
		memCache:       newNonPersistentStateCache(),
		db:             db,
		flushThreshold: 25,
		pendingWrites:  []pendingWrite{},
	}

	// close db if context cancelled
	go func() {
		<-ctx.Done()
		_ = p.Close()
	}()

	return p, nil
}

func (p *persistentCache) getFromPersist(key []byte, value interface{}) (bool, error) {
	found := false
	err := p.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(cacheBucket)
		data := bucket.Get(key)
		if data == nil {
			return nil
		}
		found = true
		return cbor.Unmarshal(data, value)
	})
	if err != nil {
		return false, errors.WithMessage(err, "could not get cached value")
	}
	return found, nil
}

func (p *persistentCache) writeToPersist(key []byte, value []byte) error {
	item := pendingWrite{
		key:   key,
		value: value,
	}
	p.pendingWriteMutex.Lock()
	defer p.pendingWriteMutex.Unlock()

	p.pendingWrites = append(p.pendingWrites, item)
	if len(p.pendingWrites) >= p.flushThreshold {
		return p.flushWrites()
	}
	return nil
}

// flushWrites commits all pending writes to disk. Callers must hold pendingWriteMutex.
func (p *persistentCache) flushWrites() error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(cacheBucket)
		for _, pw := range p.pendingWrites {
			if err := bucket.Put(pw.key, pw.value); err != nil {
				return err
			}
		}
		p.pendingWrites = p.pendingWrites[:0]
		return nil
	})
}

func (p *persistentCache) GetStateObject(addr common.Address) (*StateObject, error) {
	so, err := p.memCache.GetStateObject(addr)
	if err == nil {
		return so, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	// check persistent cache
	s := StateObject{}
	exists, err := p.getFromPersist(addr[:], &s)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCacheMiss
	}
	err = p.memCache.WriteStateObject(addr, s)
	return &s, err
}

func (p *persistentCache) GetSlotData(addr common.Address, slot common.Hash) (common.Hash, error) {
	data, err := p.memCache.GetSlotData(addr, slot)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return common.Hash{}, err
	}

	// check persistent cache
	value := common.Hash{}
	key := append(addr[:], slot[:]...)
	exists, err := p.getFromPersist(key, &value)
	if err != nil {
		return common.Hash{}, err
	}
	if !exists {
		return common.Hash{}, ErrCacheMiss
	}
	err = p.memCache.WriteSlotData(addr, slot, value)
	return value, err
}

func (p *persistentCache) WriteStateObject(addr common.Address, data StateObject) error {
	if err := p.memCache.WriteStateObject(addr, data); err != nil {
		return err
	}

	serialized, err := cbor.Marshal(data, cbor.EncOptions{})
	if err != nil {
		return err
	}
	return p.writeToPersist(addr[:], serialized)
}

func (p *persistentCache) WriteSlotData(addr common.Address, slot common.Hash, data common.Hash) error {
	if err := p.memCache.WriteSlotData(addr, slot, data); err != nil {
		return err
	}

	serialized, err := cbor.Marshal(data, cbor.EncOptions{})
	if err != nil {
		return err
	}
	key := append(addr[:], slot[:]...)
	return p.writeToPersist(key, serialized)
}

func (p *persistentCache) Close() error {
	p.pendingWriteMutex.Lock()
	defer p.pendingWriteMutex.Unlock()
	if err := p.flushWrites(); err != nil {
		return err
	}
	return p.db.Close()
}

func createCacheDirectory(workingDir string) (string, error) {
	cachePath := filepath.Join(workingDir, ".evmexeccache")
	_, err := os.Stat(cachePath)
	if os.IsNotExist(err) {
		if err = os.Mkdir(cachePath, 0755); err != nil {
			return "", errors.WithMessage(err, "failed to create cache directory")
		}
	} else if err != nil {
		return "", errors.WithMessage(err, "failed to check cache directory")
	}
	return cachePath, nil
}

// getCacheFilename derives a cache filename unique to the backing endpoint and block
// height, so caches for different sources never mix.
func getCacheFilename(rpcAddr string, height uint64) string {
	h := sha256.New()
	h.Write([]byte(rpcAddr))
	bs := h.Sum(nil)

	return fmt.Sprintf("%d-%x.dat", height, bs[0:10])
}
