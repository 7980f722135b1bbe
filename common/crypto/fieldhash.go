// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crypto

import (
	"fmt"
	"sort"
	"sync"

	"github.com/33cn/guessnum/common/field"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/sha3"
)

// 域哈希的名字
const (
	HashMiMC = "mimc"
	HashSha3 = "sha3"
	HashSm3  = "sm3"
)

// FieldHasher 把若干域元素压缩成一个域元素的抗碰撞哈希
//
// 同一局游戏的承诺, 累加器和加盐摘要都必须使用同一个实现
type FieldHasher interface {
	Name() string
	Hash(elems ...field.Element) field.Element
}

var (
	hashers   = make(map[string]FieldHasher)
	hasherMux sync.RWMutex
)

func init() {
	RegisterHasher(HashMiMC, &mimcHasher{})
	RegisterHasher(HashSha3, &bytesHasher{name: HashSha3, sum: func(b []byte) []byte {
		s := sha3.Sum256(b)
		return s[:]
	}})
	RegisterHasher(HashSm3, &bytesHasher{name: HashSm3, sum: Sm3Hash})
}

// RegisterHasher 注册域哈希
func RegisterHasher(name string, h FieldHasher) {
	hasherMux.Lock()
	defer hasherMux.Unlock()
	if h == nil {
		panic("crypto: RegisterHasher hasher is nil")
	}
	if _, dup := hashers[name]; dup {
		panic("crypto: RegisterHasher called twice for " + name)
	}
	hashers[name] = h
}

// LoadHasher 按名字获取域哈希
func LoadHasher(name string) (FieldHasher, error) {
	hasherMux.RLock()
	defer hasherMux.RUnlock()
	h, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("unknown field hasher %q", name)
	}
	return h, nil
}

// HasherNames 已注册的域哈希
func HasherNames() []string {
	hasherMux.RLock()
	defer hasherMux.RUnlock()
	names := make([]string, 0, len(hashers))
	for name := range hashers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mimcHasher BN254 上的 MiMC, 对 snark 电路友好
type mimcHasher struct{}

func (m *mimcHasher) Name() string { return HashMiMC }

func (m *mimcHasher) Hash(elems ...field.Element) field.Element {
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		// 规范编码一定小于模, 不会出错
		if _, err := h.Write(b[:]); err != nil {
			panic(err)
		}
	}
	return field.FromBytesReduce(h.Sum(nil))
}

// bytesHasher 将元素的大端编码拼接后做字节哈希, 结果取模
type bytesHasher struct {
	name string
	sum  func([]byte) []byte
}

func (b *bytesHasher) Name() string { return b.name }

func (b *bytesHasher) Hash(elems ...field.Element) field.Element {
	buf := make([]byte, 0, len(elems)*field.Bytes)
	for i := range elems {
		e := elems[i].Bytes()
		buf = append(buf, e[:]...)
	}
	return field.FromBytesReduce(b.sum(buf))
}
