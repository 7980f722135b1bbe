// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field 游戏使用的素数域(BN254 标量域)元素以及距离函数
//
// 所有的秘密数字，猜测值以及哈希摘要都是这个域中的元素。
package field

import (
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element 域元素
type Element = fr.Element

// Bytes 序列化后的字节长度
const Bytes = fr.Bytes

// randBytes 随机数读取的字节数，48 字节取模后偏差小于 2^-128
const randBytes = 48

var (
	// ErrInvalidElement 无法解析的域元素
	ErrInvalidElement = errors.New("ErrInvalidElement")
	// ErrElementOverflow 数值大于等于域的模
	ErrElementOverflow = errors.New("ErrElementOverflow")
)

// Modulus 域的模
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero 零元素, 也是累加器的初始值
func Zero() Element {
	var e Element
	return e
}

// FromUint64 uint64 -> Element
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// MaxElem 域中最大的元素 0 - 1
func MaxElem() Element {
	var e Element
	e.SetOne()
	e.Neg(&e)
	return e
}

// Dist 两个元素之间的距离
//
// 先比较大小再相减, 直接相减会在 x < y 时回绕成一个巨大的值
func Dist(x, y Element) Element {
	var d Element
	if x.Cmp(&y) >= 0 {
		d.Sub(&x, &y)
	} else {
		d.Sub(&y, &x)
	}
	return d
}

// Less 按照整数大小比较 a < b
func Less(a, b Element) bool {
	return a.Cmp(&b) < 0
}

// Random 从 r 中读取随机数并均匀映射到域中
func Random(r io.Reader) (Element, error) {
	var e Element
	buf := make([]byte, randBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return e, err
	}
	e.SetBigInt(new(big.Int).SetBytes(buf))
	return e, nil
}

// FromBytesReduce 任意字节(比如哈希结果)按大端取模得到元素
func FromBytesReduce(b []byte) Element {
	var e Element
	e.SetBigInt(new(big.Int).SetBytes(b))
	return e
}

// ToBytes 规范的 32 字节大端表示
func ToBytes(e Element) []byte {
	b := e.Bytes()
	return b[:]
}

// Hex 0x 开头的 32 字节十六进制表示
func Hex(e Element) string {
	return "0x" + hex.EncodeToString(ToBytes(e))
}

// Parse 解析十进制或者 0x 开头的十六进制字符串, 不允许大于等于模的数值
func Parse(s string) (Element, error) {
	var e Element
	s = strings.TrimSpace(s)
	if s == "" {
		return e, ErrInvalidElement
	}
	v := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = v.SetString(s[2:], 16)
	} else {
		_, ok = v.SetString(s, 10)
	}
	if !ok || v.Sign() < 0 {
		return e, ErrInvalidElement
	}
	if v.Cmp(fr.Modulus()) >= 0 {
		return e, ErrElementOverflow
	}
	e.SetBigInt(v)
	return e, nil
}

// ParseList 批量解析
func ParseList(ss []string) ([]Element, error) {
	elems := make([]Element, len(ss))
	for i, s := range ss {
		e, err := Parse(s)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return elems, nil
}

// Strings 十进制字符串列表
func Strings(elems []Element) []string {
	ss := make([]string, len(elems))
	for i := range elems {
		ss[i] = elems[i].String()
	}
	return ss
}
