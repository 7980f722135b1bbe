// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dapp 系统基础dapp包
package dapp

import (
	"reflect"
	"strings"

	"github.com/33cn/guessnum/account"
	"github.com/33cn/guessnum/common/address"
	dbm "github.com/33cn/guessnum/common/db"
	log "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
)

var blog = log.New("module", "execs.base")

// Driver 执行器驱动接口
//
// Exec 只能通过 statedb 写公开状态, 执行器内存中的私有状态必须在 Commit 时才生效,
// 宿主在 receipt 落盘成功后调用 Commit, 其它情况调用 Rollback
type Driver interface {
	SetStateDB(dbm.KV)
	GetStateDB() dbm.KV
	GetCoinsAccount() *account.DB
	GetDriverName() string
	SetEnv(height, blocktime int64)
	CheckTx(tx *types.Transaction, index int) error
	Exec(tx *types.Transaction, index int) (*types.Receipt, error)
	Query(funcName string, params []byte) (types.Message, error)
	Commit()
	Rollback()
}

// DriverBase 执行器基类
type DriverBase struct {
	statedb      dbm.KV
	coinsaccount *account.DB
	height       int64
	blocktime    int64
	child        Driver
	childValue   reflect.Value
}

// SetChild 设置子类, Query 通过反射调用子类的 Query_ 方法
func (d *DriverBase) SetChild(e Driver) {
	d.child = e
	d.childValue = reflect.ValueOf(e)
}

// SetEnv 设置区块环境
func (d *DriverBase) SetEnv(height, blocktime int64) {
	d.height = height
	d.blocktime = blocktime
}

// SetStateDB 设置状态数据库
func (d *DriverBase) SetStateDB(db dbm.KV) {
	if d.coinsaccount == nil {
		d.coinsaccount = account.NewCoinsAccount(db)
	}
	d.statedb = db
	d.coinsaccount.SetDB(db)
}

// GetStateDB 获取状态数据库
func (d *DriverBase) GetStateDB() dbm.KV {
	return d.statedb
}

// GetCoinsAccount 主币账户
func (d *DriverBase) GetCoinsAccount() *account.DB {
	if d.coinsaccount == nil {
		d.coinsaccount = account.NewCoinsAccount(d.statedb)
	}
	return d.coinsaccount
}

// GetHeight 当前高度
func (d *DriverBase) GetHeight() int64 {
	return d.height
}

// GetBlockTime 当前区块时间
func (d *DriverBase) GetBlockTime() int64 {
	return d.blocktime
}

// CheckTx 默认不做检查
func (d *DriverBase) CheckTx(tx *types.Transaction, index int) error {
	return nil
}

// Commit 默认没有私有状态
func (d *DriverBase) Commit() {}

// Rollback 默认没有私有状态
func (d *DriverBase) Rollback() {}

// Query 调用子类的 Query_funcName(in *T) (types.Message, error), params 是 T 的 json
func (d *DriverBase) Query(funcName string, params []byte) (msg types.Message, err error) {
	if d.child == nil {
		return nil, types.ErrActionNotSupport
	}
	method := d.childValue.MethodByName("Query_" + funcName)
	if !method.IsValid() {
		blog.Debug("Query", "funcName", funcName, "err", "not support")
		return nil, types.ErrActionNotSupport
	}
	mtype := method.Type()
	if mtype.NumIn() != 1 || mtype.NumOut() != 2 || mtype.In(0).Kind() != reflect.Ptr {
		return nil, errors.Wrapf(types.ErrActionNotSupport, "bad query method %s", funcName)
	}
	in := reflect.New(mtype.In(0).Elem())
	if len(params) > 0 {
		if err := types.Decode(params, in.Interface()); err != nil {
			return nil, errors.Wrapf(types.ErrDecode, "query %s: %v", funcName, err)
		}
	}
	ret := method.Call([]reflect.Value{in})
	if e := ret[1].Interface(); e != nil {
		return nil, e.(error)
	}
	return ret[0].Interface(), nil
}

// ExecAddress 执行器的地址, 执行器托管的资产存在这个地址上
func ExecAddress(name string) string {
	return address.ExecAddress(name)
}

// IsExecName 执行器名只能是小写字母与数字
func IsExecName(name string) bool {
	if name == "" || len(name) > address.MaxExecNameLength {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) < 0
}
