// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/guessnum/common"
	"github.com/33cn/guessnum/common/address"
	"github.com/33cn/guessnum/common/crypto"
)

//Signature 交易签名
type Signature struct {
	Ty        int32  `json:"ty"`
	Pubkey    []byte `json:"pubkey"`
	Signature []byte `json:"signature"`
}

//GetPubkey pubkey
func (s *Signature) GetPubkey() []byte {
	if s == nil {
		return nil
	}
	return s.Pubkey
}

//Transaction 交易
type Transaction struct {
	Execer    []byte     `json:"execer"`
	Payload   []byte     `json:"payload"`
	Nonce     int64      `json:"nonce"`
	Signature *Signature `json:"signature,omitempty"`
}

//GetSignature signature
func (tx *Transaction) GetSignature() *Signature {
	if tx == nil {
		return nil
	}
	return tx.Signature
}

//TxHashPerfix 已执行交易的 key 前缀
var TxHashPerfix = []byte("TX-")

//CalcTxKey 交易去重的 key
func CalcTxKey(hash []byte) []byte {
	key := make([]byte, 0, len(TxHashPerfix)+len(hash))
	key = append(key, TxHashPerfix...)
	return append(key, hash...)
}

//TxResult 已执行交易的位置
type TxResult struct {
	Height int64 `json:"height"`
	Index  int   `json:"index"`
}

//Hash 不包含签名的交易哈希
func (tx *Transaction) Hash() []byte {
	copytx := *tx
	copytx.Signature = nil
	data := Encode(&copytx)
	return common.Sha256(data)
}

//Size 交易大小
func (tx *Transaction) Size() int {
	return len(Encode(tx))
}

//Sign 交易签名
func (tx *Transaction) Sign(ty int32, priv crypto.PrivKey) {
	tx.Signature = nil
	data := Encode(tx)
	pub := priv.PubKey()
	sign := priv.Sign(data)
	tx.Signature = &Signature{
		Ty:        ty,
		Pubkey:    pub.Bytes(),
		Signature: sign.Bytes(),
	}
}

//CheckSign 交易签名校验
func (tx *Transaction) CheckSign() bool {
	if tx.Signature == nil {
		return false
	}
	copytx := *tx
	copytx.Signature = nil
	data := Encode(&copytx)
	c, err := crypto.New(crypto.GetName(int(tx.Signature.Ty)))
	if err != nil {
		return false
	}
	pub, err := c.PubKeyFromBytes(tx.Signature.Pubkey)
	if err != nil {
		return false
	}
	signbytes, err := c.SignatureFromBytes(tx.Signature.Signature)
	if err != nil {
		return false
	}
	return pub.VerifyBytes(data, signbytes)
}

//From 交易发起方地址
func (tx *Transaction) From() string {
	pub := tx.GetSignature().GetPubkey()
	if len(pub) == 0 {
		return ""
	}
	return address.PubKeyToAddr(pub)
}

//Check 基本检查
func (tx *Transaction) Check() error {
	if tx.Size() > MaxTxSize {
		return ErrTxMsgSizeTooBig
	}
	if !tx.CheckSign() {
		return ErrSign
	}
	return nil
}
