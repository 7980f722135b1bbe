// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	dbm "github.com/33cn/guessnum/common/db"
	"github.com/33cn/guessnum/types"
)

// StateDB 交易执行期间的写缓存, 提交时才写入数据库
type StateDB struct {
	db      dbm.DB
	txcache map[string][]byte
	keys    []string
	intx    bool
}

// NewStateDB new state db
func NewStateDB(db dbm.DB) *StateDB {
	return &StateDB{db: db}
}

// Begin 开启内存事务处理
func (s *StateDB) Begin() {
	s.intx = true
	s.keys = nil
	s.txcache = make(map[string][]byte)
}

// Rollback 丢弃事务中的修改
func (s *StateDB) Rollback() {
	s.resetTx()
}

// Commit 把 receipt 的 kv 一次性写入数据库
func (s *StateDB) Commit(kvs []*types.KeyValue) error {
	batch := s.db.NewBatch(true)
	for _, kv := range kvs {
		if kv.Value == nil {
			batch.Delete(kv.Key)
			continue
		}
		batch.Set(kv.Key, kv.Value)
	}
	err := batch.Write()
	s.resetTx()
	return err
}

func (s *StateDB) resetTx() {
	s.intx = false
	s.txcache = nil
	s.keys = nil
}

// Get get value from state db
func (s *StateDB) Get(key []byte) ([]byte, error) {
	skey := string(key)
	if s.intx {
		if value, ok := s.txcache[skey]; ok {
			if value == nil {
				return nil, types.ErrNotFound
			}
			return value, nil
		}
	}
	value, err := s.db.Get(key)
	if err == dbm.ErrNotFoundInDb {
		return nil, types.ErrNotFound
	}
	return value, err
}

// Set 只能在事务中写
func (s *StateDB) Set(key []byte, value []byte) error {
	if !s.intx {
		return types.ErrNotAllowMemSetKey
	}
	skey := string(key)
	if _, ok := s.txcache[skey]; !ok {
		s.keys = append(s.keys, skey)
	}
	s.txcache[skey] = value
	return nil
}

// GetSetKeys 本次事务写过的 key
func (s *StateDB) GetSetKeys() []string {
	return s.keys
}
