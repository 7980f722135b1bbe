// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/field"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
)

// ledger 只能追加的提交列表和它的累加器
type ledger struct {
	h    crypto.FieldHasher
	subs []*gty.Submission
	acc  field.Element
}

func newLedger(h crypto.FieldHasher) *ledger {
	return &ledger{h: h, acc: field.Zero()}
}

// next 追加 s 之后的累加器, 不修改 ledger
func (l *ledger) next(s *gty.Submission) field.Element {
	return step(l.h, l.acc, s)
}

// append 追加, acc 必须是 next(s) 的结果
func (l *ledger) append(s *gty.Submission, acc field.Element) {
	l.subs = append(l.subs, s)
	l.acc = acc
}

func (l *ledger) digest() field.Element {
	return l.acc
}

func (l *ledger) len() int {
	return len(l.subs)
}

func (l *ledger) submissions() []*gty.Submission {
	out := make([]*gty.Submission, len(l.subs))
	copy(out, l.subs)
	return out
}

// acc' = H(submissionDigest, acc)
func step(h crypto.FieldHasher, acc field.Element, s *gty.Submission) field.Element {
	return h.Hash(s.Hash(h), acc)
}

// Accumulate 从零开始按顺序计算累加器
func Accumulate(h crypto.FieldHasher, subs ...*gty.Submission) field.Element {
	acc := field.Zero()
	for _, s := range subs {
		acc = step(h, acc, s)
	}
	return acc
}

// VerifyHistory 重新计算完整的提交历史, 和公开的 submissionHash 比较
func VerifyHistory(h crypto.FieldHasher, subs []*gty.Submission, claimed field.Element) bool {
	acc := Accumulate(h, subs...)
	return acc.Equal(&claimed)
}
