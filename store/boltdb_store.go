package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/KumKeeHyun/s11n"
	"github.com/KumKeeHyun/s11n/encoding"
)

const (
	dbFile = "s11n.db"
)

// bbolt locks its file, so stores sharing a path share one handle. The
// handle is closed when its last store is.
type sharedDB struct {
	db   *bolt.DB
	refs int
}

var (
	dbs     = map[string]*sharedDB{}
	dbslock = sync.Mutex{}
)

func acquireBoltDB(path string) (*bolt.DB, error) {
	dbslock.Lock()
	defer dbslock.Unlock()

	if s, exists := dbs[path]; exists {
		s.refs++
		return s.db, nil
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	dbs[path] = &sharedDB{db: db, refs: 1}
	return db, nil
}

func releaseBoltDB(path string) error {
	dbslock.Lock()
	defer dbslock.Unlock()

	s, exists := dbs[path]
	if !exists {
		return nil
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}
	delete(dbs, path)
	return s.db.Close()
}

func newBoltDBStore(o *options) (*boltDBStore, error) {
	dbPath := filepath.Join(o.dirPath, dbFile)
	if err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm); err != nil {
		return nil, err
	}
	db, err := acquireBoltDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(o.bucket))
		return err
	})
	if err != nil {
		_ = releaseBoltDB(dbPath)
		return nil, err
	}

	return &boltDBStore{
		db:     db,
		path:   dbPath,
		bucket: []byte(o.bucket),
		codec:  o.codec,
	}, nil
}

type boltDBStore struct {
	db     *bolt.DB
	path   string
	bucket []byte
	codec  encoding.Codec

	closeOnce sync.Once
}

var _ Store = &boltDBStore{}

func (s *boltDBStore) Get(key string) (n *s11n.Node, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		bv := b.Get([]byte(key))
		if bv == nil {
			return ErrNotFound
		}
		n, err = s.codec.Unmarshal(bv)
		if err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		return nil
	})
	return
}

func (s *boltDBStore) Put(key string, n *s11n.Node) error {
	bv, err := s.codec.Marshal(n)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		return b.Put([]byte(key), bv)
	})
}

func (s *boltDBStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b.Get([]byte(key)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}

func (s *boltDBStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (s *boltDBStore) Close() (err error) {
	s.closeOnce.Do(func() {
		err = releaseBoltDB(s.path)
	})
	return
}
