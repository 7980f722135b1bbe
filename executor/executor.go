// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 交易执行的宿主环境
//
// 宿主负责区块高度, 签名校验, 以及收据的原子提交: 执行器返回错误时
// 状态数据库和执行器的私有状态都保持调用前的样子
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/33cn/guessnum/account"
	"github.com/33cn/guessnum/common"
	dbm "github.com/33cn/guessnum/common/db"
	log "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/events"
	drivers "github.com/33cn/guessnum/system/dapp"
	coins "github.com/33cn/guessnum/system/dapp/coins/executor"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
)

var elog = log.New("module", "execs")

// Executor 执行器宿主
type Executor struct {
	mu        sync.Mutex
	stateDB   *StateDB
	registry  *drivers.Registry
	publisher events.Publisher
	height    int64
	blocktime int64
	index     int
}

// New 创建宿主, 默认注册 coins 执行器
func New(db dbm.DB, publisher events.Publisher) *Executor {
	if publisher == nil {
		publisher = events.NonePublisher{}
	}
	e := &Executor{
		stateDB:   NewStateDB(db),
		registry:  drivers.NewRegistry(),
		publisher: publisher,
		blocktime: time.Now().Unix(),
	}
	coins.Init(e.registry)
	return e
}

// Registry 执行器注册表
func (e *Executor) Registry() *drivers.Registry {
	return e.registry
}

// Height 当前区块高度
func (e *Executor) Height() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.height
}

// NextBlock 前进 n 个区块, 高度只增不减
func (e *Executor) NextBlock(n int64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n <= 0 {
		return e.height
	}
	e.height += n
	e.blocktime = time.Now().Unix()
	e.index = 0
	return e.height
}

// Genesis 给地址发放初始资产
func (e *Executor) Genesis(addr string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateDB.Begin()
	receipt, err := account.NewCoinsAccount(e.stateDB).GenesisInit(addr, amount)
	if err != nil {
		e.stateDB.Rollback()
		return err
	}
	return e.stateDB.Commit(receipt.KV)
}

// ExecTx 执行一笔交易, 成功后发布交易日志
func (e *Executor) ExecTx(ctx context.Context, tx *types.Transaction) (*types.ReceiptData, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := tx.Check(); err != nil {
		return nil, err
	}
	if err := e.checkTxDup(tx); err != nil {
		return nil, err
	}
	driver, err := e.registry.LoadDriver(string(tx.Execer), e.height)
	if err != nil {
		return nil, errors.Wrapf(err, "execer %s", string(tx.Execer))
	}
	e.begin()
	driver.SetStateDB(e.stateDB)
	driver.SetEnv(e.height, e.blocktime)
	receipt, err := e.execTxOne(driver, tx, e.index)
	if err != nil {
		e.rollback(driver)
		return nil, err
	}
	if err := e.commit(driver, tx, receipt); err != nil {
		return nil, err
	}
	e.index++
	data := &types.ReceiptData{Ty: receipt.Ty, Logs: receipt.Logs}
	e.publish(ctx, tx, data)
	return data, nil
}

func (e *Executor) execTxOne(driver drivers.Driver, tx *types.Transaction, index int) (*types.Receipt, error) {
	if err := driver.CheckTx(tx, index); err != nil {
		elog.Error("check tx error", "err", err, "exec", string(tx.Execer))
		return nil, err
	}
	receipt, err := driver.Exec(tx, index)
	if err != nil {
		elog.Error("exec tx error", "err", err, "exec", string(tx.Execer))
		return nil, err
	}
	if receipt == nil {
		return nil, types.ErrActionNotSupport
	}
	// statedb 中 Set 的 key 必须都在 receipt.KV 中
	if err := e.checkKV(e.stateDB.GetSetKeys(), receipt.GetKV()); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (e *Executor) checkKV(memset []string, kvs []*types.KeyValue) error {
	keys := make(map[string]bool)
	for _, kv := range kvs {
		keys[string(kv.Key)] = true
	}
	for _, key := range memset {
		if _, ok := keys[key]; !ok {
			elog.Error("err memset key", "key", key)
			return types.ErrNotAllowMemSetKey
		}
	}
	return nil
}

func (e *Executor) begin() {
	e.stateDB.Begin()
}

// checkTxDup 同一笔签名交易只能执行一次
func (e *Executor) checkTxDup(tx *types.Transaction) error {
	_, err := e.stateDB.Get(types.CalcTxKey(tx.Hash()))
	if err == nil {
		elog.Error("checkTxDup", "hash", common.ToHex(tx.Hash()), "err", types.ErrTxDup)
		return types.ErrTxDup
	}
	if err != types.ErrNotFound {
		return err
	}
	return nil
}

// commit 交易的去重记录和 receipt 在同一个 batch 中写入
func (e *Executor) commit(driver drivers.Driver, tx *types.Transaction, receipt *types.Receipt) error {
	kvs := make([]*types.KeyValue, 0, len(receipt.KV)+1)
	kvs = append(kvs, receipt.KV...)
	kvs = append(kvs, &types.KeyValue{
		Key:   types.CalcTxKey(tx.Hash()),
		Value: types.Encode(&types.TxResult{Height: e.height, Index: e.index}),
	})
	if err := e.stateDB.Commit(kvs); err != nil {
		elog.Error("commit receipt", "err", err)
		driver.Rollback()
		return err
	}
	driver.Commit()
	return nil
}

func (e *Executor) rollback(driver drivers.Driver) {
	e.stateDB.Rollback()
	driver.Rollback()
}

// 状态已经提交, 发布失败只记录日志
func (e *Executor) publish(ctx context.Context, tx *types.Transaction, data *types.ReceiptData) {
	if len(data.Logs) == 0 {
		return
	}
	evs := make([]*events.Event, 0, len(data.Logs))
	for _, item := range data.Logs {
		evs = append(evs, events.NewEvent(e.height, e.blocktime, tx, item))
	}
	if err := e.publisher.Publish(ctx, evs...); err != nil {
		elog.Error("publish events", "height", e.height, "count", len(evs), "err", err)
	}
}

// Query 只读查询, 执行器看到的是已经提交的状态
func (e *Executor) Query(execer, funcName string, param types.Message) (types.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	driver, err := e.registry.LoadDriver(execer, -1)
	if err != nil {
		return nil, err
	}
	driver.SetStateDB(e.stateDB)
	driver.SetEnv(e.height, e.blocktime)
	var params []byte
	if param != nil {
		params = types.Encode(param)
	}
	return driver.Query(funcName, params)
}

// Balance 主币余额
func (e *Executor) Balance(addr string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return account.NewCoinsAccount(e.stateDB).LoadAccount(addr).GetBalance()
}

// Close 关闭事件发布
func (e *Executor) Close() error {
	return e.publisher.Close()
}
