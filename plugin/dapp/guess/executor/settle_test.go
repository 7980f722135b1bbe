// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/33cn/guessnum/common/field"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	"github.com/stretchr/testify/assert"
)

func TestSelectWinner(t *testing.T) {
	secret := field.FromUint64(5)
	subs := []*gty.Submission{
		{Player: "A", Guesses: elems(3, 9)},
		{Player: "B", Guesses: elems(6)},
		{Player: "C", Guesses: elems(1, 1, 1)},
	}
	winner, best, ok := selectWinner(secret, subs)
	assert.True(t, ok)
	assert.Equal(t, "B", winner)
	assert.Equal(t, field.FromUint64(1), best)

	// 距离相同先提交的赢
	winner, _, _ = selectWinner(secret, []*gty.Submission{
		{Player: "A", Guesses: elems(4)},
		{Player: "B", Guesses: elems(6)},
	})
	assert.Equal(t, "A", winner)
	winner, _, _ = selectWinner(secret, []*gty.Submission{
		{Player: "B", Guesses: elems(6)},
		{Player: "A", Guesses: elems(4)},
	})
	assert.Equal(t, "B", winner)

	_, best, ok = selectWinner(secret, nil)
	assert.False(t, ok)
	assert.Equal(t, field.MaxElem(), best)
}

func TestSelectWinnerFarGuess(t *testing.T) {
	// 秘密数为 0 时猜 MaxElem 的距离就是 MaxElem, 仍然是赢家
	winner, best, ok := selectWinner(field.Zero(), []*gty.Submission{
		{Player: "A", Guesses: []field.Element{field.MaxElem()}},
	})
	assert.True(t, ok)
	assert.Equal(t, "A", winner)
	assert.Equal(t, field.MaxElem(), best)

	// 大数与小数之间的距离不会回绕
	secret := field.MaxElem()
	winner, _, _ = selectWinner(secret, []*gty.Submission{
		{Player: "A", Guesses: elems(0)},
		{Player: "B", Guesses: elems(1)},
	})
	assert.Equal(t, "B", winner)
}

func TestPayout(t *testing.T) {
	fee, rest := payout(600, 200)
	assert.Equal(t, int64(200), fee)
	assert.Equal(t, int64(400), rest)

	fee, rest = payout(100, 200)
	assert.Equal(t, int64(100), fee)
	assert.Equal(t, int64(0), rest)

	fee, rest = payout(0, 200)
	assert.Equal(t, int64(0), fee)
	assert.Equal(t, int64(0), rest)

	fee, rest = payout(50, 0)
	assert.Equal(t, int64(0), fee)
	assert.Equal(t, int64(50), rest)
}
