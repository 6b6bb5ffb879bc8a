package store

import (
	"github.com/KumKeeHyun/s11n/encoding"
)

type StoreType int

const (
	InMemory StoreType = iota
	BoltDB
)

const defaultBucket = "nodes"

type options struct {
	storeType StoreType
	bucket    string
	dirPath   string
	codec     encoding.Codec
}

func newOptions(opts ...Option) *options {
	// nodes are kept in memory and encoded as json when persisted
	o := &options{
		storeType: InMemory,
		bucket:    defaultBucket,
		dirPath:   ".",
		codec:     encoding.JSON,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*options)

func WithInMemory() Option {
	return func(o *options) {
		o.storeType = InMemory
	}
}

func WithBoltDB(bucket string) Option {
	return func(o *options) {
		o.storeType = BoltDB
		if bucket != "" {
			o.bucket = bucket
		}
	}
}

func WithDirPath(dirPath string) Option {
	return func(o *options) {
		if dirPath == "" {
			return
		}
		o.dirPath = dirPath
	}
}

func WithCodec(codec encoding.Codec) Option {
	return func(o *options) {
		if codec == nil {
			return
		}
		o.codec = codec
	}
}
