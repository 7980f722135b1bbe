// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"
	"testing"

	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/field"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elems(vs ...uint64) []field.Element {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		out[i] = field.FromUint64(v)
	}
	return out
}

func TestSubmissionHash(t *testing.T) {
	h, err := crypto.LoadHasher(crypto.HashMiMC)
	require.Nil(t, err)
	a := &Submission{Player: "alice", Guesses: elems(3, 9)}
	b := &Submission{Player: "alice", Guesses: elems(3, 9)}
	assert.True(t, eq(a.Hash(h), b.Hash(h)))

	// 玩家和顺序都参与哈希
	c := &Submission{Player: "bob", Guesses: elems(3, 9)}
	d := &Submission{Player: "alice", Guesses: elems(9, 3)}
	assert.False(t, eq(a.Hash(h), c.Hash(h)))
	assert.False(t, eq(a.Hash(h), d.Hash(h)))

	expect := h.Hash(PlayerElement("alice"), h.Hash(elems(3, 9)...))
	assert.True(t, eq(expect, a.Hash(h)))
}

func eq(a, b field.Element) bool {
	return a.Equal(&b)
}

func TestSubmissionJSON(t *testing.T) {
	s := &Submission{Player: "alice", Guesses: elems(1, 2, 3)}
	data, err := json.Marshal(s)
	require.Nil(t, err)
	assert.JSONEq(t, `{"player":"alice","guesses":["1","2","3"]}`, string(data))

	var list []*Submission
	require.Nil(t, json.Unmarshal([]byte(`[{"player":"bob","guesses":["0x10","7"]}]`), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Player)
	assert.Equal(t, []string{"16", "7"}, field.Strings(list[0].Guesses))

	assert.NotNil(t, json.Unmarshal([]byte(`{"player":"bob","guesses":["x"]}`), &Submission{}))
}

func TestHashedSubmission(t *testing.T) {
	h, _ := crypto.LoadHasher(crypto.HashSha3)
	s := &Submission{Player: "alice", Guesses: elems(4, 6)}
	salt := field.FromUint64(99)
	hashed := s.ToHashed(h, salt)
	assert.Equal(t, "alice", hashed.Player)
	assert.Len(t, hashed.Hashes, 2)
	assert.NotEqual(t, hashed.Hashes[0], hashed.Hashes[1])

	assert.True(t, VerifyHashed(h, hashed, elems(4, 6)))
	assert.False(t, VerifyHashed(h, hashed, elems(6, 4)))
	assert.False(t, VerifyHashed(h, hashed, elems(4)))
	assert.False(t, VerifyHashed(h, nil, elems(4, 6)))

	// 盐不同, 相同的猜测得到不同的哈希
	other := s.ToHashed(h, field.FromUint64(100))
	assert.NotEqual(t, hashed.Hashes, other.Hashes)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.Nil(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = ParseConfig([]byte(`{"duration":10,"hashType":"sm3"}`))
	require.Nil(t, err)
	assert.Equal(t, int64(10), cfg.Duration)
	assert.Equal(t, "sm3", cfg.HashType)
	assert.Equal(t, types.Coin, cfg.PerGuessCost)

	for _, bad := range []string{
		`{"duration":0}`,
		`{"perGuessCost":0}`,
		`{"originatorFee":-1}`,
		`{"hashType":"md5"}`,
		`{"duration":"x"}`,
	} {
		_, err = ParseConfig([]byte(bad))
		assert.Equal(t, types.ErrConfig, errors.Cause(err), bad)
	}
}

func TestErrClasses(t *testing.T) {
	assert.Equal(t, types.ErrClassPrecondition, types.ClassOf(ErrOutOfWindow))
	assert.Equal(t, types.ErrClassPrecondition, types.ClassOf(errors.Wrap(ErrNotOrigin, "x")))
	assert.Equal(t, types.ErrClassConsistency, types.ClassOf(ErrStateMismatch))
	assert.Equal(t, types.ErrClassConsistency, types.ClassOf(ErrCommitmentMismatch))
	assert.Equal(t, types.ErrClassBalanceInvariant, types.ClassOf(ErrBalanceNotClosed))
}

func TestStatusAndLogNames(t *testing.T) {
	assert.Equal(t, "Active", GameStatusActive.String())
	assert.Equal(t, "Unknown", GameStatus(9).String())
	assert.Equal(t, LogNameNewSubmission, types.GetLogName(TyLogGuessSubmission))
	assert.Equal(t, "mavl-guess-game", GameKey)
}
