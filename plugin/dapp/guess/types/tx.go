// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/guessnum/common/address"
	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/field"
	"github.com/33cn/guessnum/types"
)

// CreateTx 构造并签名 guess 交易
func CreateTx(priv crypto.PrivKey, action *GuessAction, nonce int64) *types.Transaction {
	tx := &types.Transaction{Execer: ExecerGuess, Payload: types.Encode(action), Nonce: nonce}
	tx.Sign(types.SECP256K1, priv)
	return tx
}

// CreateInitTx init
func CreateInitTx(priv crypto.PrivKey, nonce int64) *types.Transaction {
	return CreateTx(priv, &GuessAction{Ty: GuessActionInit, Init: &GuessInit{}}, nonce)
}

// CreateSubmitTx 以签名者的身份提交
func CreateSubmitTx(priv crypto.PrivKey, guesses []field.Element, nonce int64) *types.Transaction {
	submit := &GuessSubmit{
		Player:  address.PubKeyToAddr(priv.PubKey().Bytes()),
		Guesses: field.Strings(guesses),
	}
	return CreateTx(priv, &GuessAction{Ty: GuessActionSubmit, Submit: submit}, nonce)
}

// CreateConcludeTx conclude
func CreateConcludeTx(priv crypto.PrivKey, nonce int64) *types.Transaction {
	return CreateTx(priv, &GuessAction{Ty: GuessActionConclude, Conclude: &GuessConclude{}}, nonce)
}
