// Package store keeps serialized node trees under string keys.
package store

import (
	"github.com/KumKeeHyun/s11n"
)

// ErrNotFound is returned for a key the store does not hold.
var ErrNotFound = s11n.ErrNotFound

type Store interface {
	Get(key string) (*s11n.Node, error)
	Put(key string, n *s11n.Node) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

func New(opts ...Option) (Store, error) {
	o := newOptions(opts...)
	switch o.storeType {
	case BoltDB:
		s, err := newBoltDBStore(o)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return newMemStore(), nil
	}
}
