// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crypto

import (
	"testing"

	"github.com/33cn/guessnum/common/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherRegistry(t *testing.T) {
	assert.Equal(t, []string{HashMiMC, HashSha3, HashSm3}, HasherNames())
	_, err := LoadHasher("md5")
	assert.NotNil(t, err)
	assert.Panics(t, func() { RegisterHasher(HashMiMC, &mimcHasher{}) })
}

func TestFieldHashers(t *testing.T) {
	one, two := field.FromUint64(1), field.FromUint64(2)
	for _, name := range HasherNames() {
		h, err := LoadHasher(name)
		require.Nil(t, err)
		assert.Equal(t, name, h.Name())

		a := h.Hash(one, two)
		assert.Equal(t, a, h.Hash(one, two), name)
		assert.NotEqual(t, a, h.Hash(two, one), name)
		assert.NotEqual(t, a, h.Hash(one), name)
		assert.False(t, a.IsZero(), name)
	}
}

func TestFieldHashersDiffer(t *testing.T) {
	x := field.FromUint64(5)
	m, _ := LoadHasher(HashMiMC)
	s, _ := LoadHasher(HashSha3)
	g, _ := LoadHasher(HashSm3)
	assert.NotEqual(t, m.Hash(x), s.Hash(x))
	assert.NotEqual(t, s.Hash(x), g.Hash(x))
}

func TestByteHashes(t *testing.T) {
	assert.Equal(t, 32, len(Sha256([]byte("a"))))
	assert.Equal(t, 32, len(Sm3Hash([]byte("a"))))
}
