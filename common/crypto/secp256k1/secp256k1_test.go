// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package secp256k1_test

import (
	"testing"

	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/crypto/secp256k1"
	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	require := require.New(t)

	c, err := crypto.New(secp256k1.Name)
	require.Nil(err)
	require.Equal(secp256k1.ID, crypto.GetType(secp256k1.Name))
	require.Equal(secp256k1.Name, crypto.GetName(secp256k1.ID))

	priv, err := c.GenKey()
	require.Nil(err)

	priv2, err := c.PrivKeyFromBytes(priv.Bytes())
	require.Nil(err)
	require.True(priv.Equals(priv2))

	pub := priv.PubKey()
	require.NotNil(pub)
	require.Equal(33, len(pub.Bytes()))

	pub2, err := c.PubKeyFromBytes(pub.Bytes())
	require.Nil(err)
	require.True(pub.Equals(pub2))

	msg := []byte("hello world")
	sign1 := priv.Sign(msg)
	sign2 := priv2.Sign(msg)

	sign3, err := c.SignatureFromBytes(sign1.Bytes())
	require.Nil(err)
	require.True(sign3.Equals(sign1))

	require.True(pub.VerifyBytes(msg, sign1))
	require.True(pub2.VerifyBytes(msg, sign2))
	require.True(pub.VerifyBytes(msg, sign3))
	require.False(pub.VerifyBytes([]byte("hello"), sign1))
}

func TestBadInput(t *testing.T) {
	c, err := crypto.New(secp256k1.Name)
	require.Nil(t, err)
	_, err = c.PrivKeyFromBytes([]byte{1, 2})
	require.NotNil(t, err)
	_, err = c.PubKeyFromBytes(make([]byte, 32))
	require.NotNil(t, err)

	priv, err := c.GenKey()
	require.Nil(t, err)
	other, err := c.GenKey()
	require.Nil(t, err)
	msg := []byte("guess")
	require.False(t, other.PubKey().VerifyBytes(msg, priv.Sign(msg)))
	require.False(t, priv.PubKey().VerifyBytes(msg, secp256k1.SignatureSecp256k1{1, 2, 3}))
}
