// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package util 测试以及命令行共用的小工具
package util

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/33cn/guessnum/common"
	"github.com/33cn/guessnum/common/address"
	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/crypto/secp256k1"
	"github.com/33cn/guessnum/common/db"
	log "github.com/33cn/guessnum/common/log"
	cty "github.com/33cn/guessnum/system/dapp/coins/types"
	"github.com/33cn/guessnum/types"
)

var ulog = log.New("module", "util")

// Genaddress : generate a address
func Genaddress() (string, crypto.PrivKey) {
	cr, err := crypto.New(secp256k1.Name)
	if err != nil {
		panic(err)
	}
	privto, err := cr.GenKey()
	if err != nil {
		panic(err)
	}
	addrto := address.PubKeyToAddress(privto.PubKey().Bytes())
	return addrto.String(), privto
}

// HexToPrivkey 由 hex 私钥恢复
func HexToPrivkey(key string) (crypto.PrivKey, error) {
	cr, err := crypto.New(secp256k1.Name)
	if err != nil {
		return nil, err
	}
	bkey, err := common.FromHex(key)
	if err != nil {
		return nil, err
	}
	return cr.PrivKeyFromBytes(bkey)
}

// CreateCoinsTx : Create Coins Tx
func CreateCoinsTx(priv crypto.PrivKey, to string, amount int64) *types.Transaction {
	return cty.CreateTransferTx(priv, to, amount, common.RandInt63())
}


// CreateTestDB 创建一个测试数据库
func CreateTestDB() (string, db.DB) {
	dir, err := ioutil.TempDir("", "goleveldb")
	if err != nil {
		panic(err)
	}
	leveldb, err := db.NewGoLevelDB("goleveldb", dir, 128)
	if err != nil {
		panic(err)
	}
	return dir, leveldb
}

// CloseTestDB 关闭并删除测试数据库
func CloseTestDB(dir string, dbm db.DB) {
	err := os.RemoveAll(dir)
	if err != nil {
		ulog.Info("RemoveAll ", "dir", dir, "err", err)
	}
	dbm.Close()
}

// SaveKVList 保存kvs to database
func SaveKVList(kvdb db.DB, kvs []*types.KeyValue) error {
	batch := kvdb.NewBatch(true)
	for i := 0; i < len(kvs); i++ {
		if kvs[i].Value == nil {
			batch.Delete(kvs[i].Key)
			continue
		}
		batch.Set(kvs[i].Key, kvs[i].Value)
	}
	return batch.Write()
}

// JSONString 缩进的 json, 出错时返回错误信息
func JSONString(input interface{}) string {
	data, err := json.MarshalIndent(input, "", "    ")
	if err != nil {
		return fmt.Sprintf("json error: %v", err)
	}
	return string(data)
}
