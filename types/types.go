// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types 交易, 收据, 账户以及配置等公共类型
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
)

// Message 查询以及日志的消息体
type Message interface{}

//KeyValue 状态数据库的一条写入
type KeyValue struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

//ReceiptLog 执行日志
type ReceiptLog struct {
	Ty  int32  `json:"ty"`
	Log []byte `json:"log"`
}

//Receipt 执行器返回的收据, KV 由宿主一次性提交
type Receipt struct {
	Ty   int32         `json:"ty"`
	KV   []*KeyValue   `json:"kv"`
	Logs []*ReceiptLog `json:"logs"`
}

//GetKV kv
func (r *Receipt) GetKV() []*KeyValue {
	if r == nil {
		return nil
	}
	return r.KV
}

//GetLogs logs
func (r *Receipt) GetLogs() []*ReceiptLog {
	if r == nil {
		return nil
	}
	return r.Logs
}

//ReceiptData 执行成功后对外可见的部分
type ReceiptData struct {
	Ty   int32         `json:"ty"`
	Logs []*ReceiptLog `json:"logs"`
}

//Account 账户
type Account struct {
	Currency int32  `json:"currency"`
	Balance  int64  `json:"balance"`
	Frozen   int64  `json:"frozen"`
	Addr     string `json:"addr"`
}

//GetBalance balance
func (a *Account) GetBalance() int64 {
	if a == nil {
		return 0
	}
	return a.Balance
}

//ReceiptAccountTransfer 余额变化
type ReceiptAccountTransfer struct {
	Prev    *Account `json:"prev"`
	Current *Account `json:"current"`
}

//Encode 编码, 只用于内部定义的结构体, 出错说明代码有问题
func Encode(data Message) []byte {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return b
}

//Decode 解码
func Decode(data []byte, msg Message) error {
	return json.Unmarshal(data, msg)
}

//MustDecode 解码, 失败 panic
func MustDecode(data []byte, msg Message) {
	if data == nil {
		return
	}
	if err := json.Unmarshal(data, msg); err != nil {
		panic(err)
	}
}

//CheckAmount 金额是否合法
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount >= MaxCoin {
		return false
	}
	return true
}

//SafeMul 乘法, 溢出返回 ErrAmount
func SafeMul(x, y int64) (int64, error) {
	if x < 0 || y < 0 {
		return 0, ErrAmount
	}
	if x != 0 && y > math.MaxInt64/x {
		return 0, ErrAmount
	}
	return x * y, nil
}

var (
	logTypes    = make(map[int32]string)
	logTypeLock sync.RWMutex
)

//RegisterLogType 注册 log 名字
func RegisterLogType(ty int32, name string) {
	logTypeLock.Lock()
	defer logTypeLock.Unlock()
	if old, ok := logTypes[ty]; ok && old != name {
		panic(fmt.Sprintf("log type %d registered twice: %s %s", ty, old, name))
	}
	logTypes[ty] = name
}

//GetLogName log 名字
func GetLogName(ty int32) string {
	logTypeLock.RLock()
	defer logTypeLock.RUnlock()
	if name, ok := logTypes[ty]; ok {
		return name
	}
	return "LogReserved"
}
