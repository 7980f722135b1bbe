// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"fmt"
	"path"

	"github.com/dgraph-io/badger"
	log "github.com/inconshreveable/log15"
)

var blog = log.New("module", "db.gobadgerdb")

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoBadgerDB(name, dir, cache)
	}
	registerDBCreator(GoBadgerDBBackendStr, dbCreator, false)
}

//GoBadgerDB badger
type GoBadgerDB struct {
	db *badger.DB
}

// badgerLog 把 badger 自己的日志转到 log15
type badgerLog struct{}

func (badgerLog) Errorf(format string, args ...interface{}) {
	blog.Error(fmt.Sprintf(format, args...))
}

func (badgerLog) Warningf(format string, args ...interface{}) {
	blog.Warn(fmt.Sprintf(format, args...))
}

func (badgerLog) Infof(format string, args ...interface{}) {
	blog.Info(fmt.Sprintf(format, args...))
}

func (badgerLog) Debugf(format string, args ...interface{}) {
	blog.Debug(fmt.Sprintf(format, args...))
}

//NewGoBadgerDB new
func NewGoBadgerDB(name string, dir string, cache int) (*GoBadgerDB, error) {
	dbPath := path.Join(dir, name+".db")
	opts := badger.DefaultOptions(dbPath).WithLogger(badgerLog{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &GoBadgerDB{db: db}, nil
}

//Get get
func (db *GoBadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFoundInDb
	}
	if err != nil {
		blog.Error("Get", "error", err)
		return nil, err
	}
	return val, nil
}

//Set set
func (db *GoBadgerDB) Set(key []byte, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		blog.Error("Set", "error", err)
	}
	return err
}

//Delete delete
func (db *GoBadgerDB) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		blog.Error("Delete", "error", err)
	}
	return err
}

//Close close
func (db *GoBadgerDB) Close() {
	if err := db.db.Close(); err != nil {
		blog.Error("Close", "error", err)
	}
}

//NewBatch badger 的一个事务即一个批次
func (db *GoBadgerDB) NewBatch(sync bool) Batch {
	return &badgerBatch{db: db}
}

type badgerBatch struct {
	db  *GoBadgerDB
	ops []batchOp
}

func (b *badgerBatch) Set(key, value []byte) {
	b.ops = append(b.ops, batchOp{copyBytes(key), copyBytes(value)})
}

func (b *badgerBatch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{copyBytes(key), nil})
}

func (b *badgerBatch) Write() error {
	err := b.db.db.Update(func(txn *badger.Txn) error {
		for _, op := range b.ops {
			var err error
			if op.value == nil {
				err = txn.Delete(op.key)
			} else {
				err = txn.Set(op.key, op.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		blog.Error("Write", "error", err)
	}
	return err
}

func (b *badgerBatch) Reset() {
	b.ops = nil
}
