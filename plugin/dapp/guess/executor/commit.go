// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"bytes"
	"io"

	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/field"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
)

// commitment 秘密数只保存在执行器内存中, 对外只公开它的哈希
type commitment struct {
	h      crypto.FieldHasher
	secret field.Element
	digest field.Element
}

func commit(h crypto.FieldHasher, r io.Reader) (*commitment, error) {
	secret, err := field.Random(r)
	if err != nil {
		return nil, err
	}
	return &commitment{h: h, secret: secret, digest: h.Hash(secret)}, nil
}

// Digest secretNumberHash
func (c *commitment) Digest() field.Element {
	return c.digest
}

// reveal 只在结算时调用, 返回前重新核对哈希
func (c *commitment) reveal() (field.Element, error) {
	d := c.h.Hash(c.secret)
	if !d.Equal(&c.digest) {
		return field.Zero(), gty.ErrCommitmentMismatch
	}
	return c.secret, nil
}

// SecretReader 固定秘密数的随机源, 之后读取的部分(盐)来自 salts.
// 只用于模拟和测试
func SecretReader(secret field.Element, salts io.Reader) io.Reader {
	buf := make([]byte, 48)
	copy(buf[48-field.Bytes:], field.ToBytes(secret))
	return io.MultiReader(bytes.NewReader(buf), salts)
}
