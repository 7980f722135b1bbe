// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"

	"github.com/33cn/guessnum/common"
	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/field"
)

// Submission 玩家的一次提交
type Submission struct {
	Player  string
	Guesses []field.Element
}

type submissionJSON struct {
	Player  string   `json:"player"`
	Guesses []string `json:"guesses"`
}

// MarshalJSON 猜测的数用十进制字符串
func (s *Submission) MarshalJSON() ([]byte, error) {
	return json.Marshal(&submissionJSON{Player: s.Player, Guesses: field.Strings(s.Guesses)})
}

// UnmarshalJSON json
func (s *Submission) UnmarshalJSON(data []byte) error {
	var sj submissionJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	guesses, err := field.ParseList(sj.Guesses)
	if err != nil {
		return err
	}
	s.Player = sj.Player
	s.Guesses = guesses
	return nil
}

// PlayerElement 地址映射到域元素
func PlayerElement(addr string) field.Element {
	return field.FromBytesReduce(common.Sha256([]byte(addr)))
}

// Hash submissionDigest = H(player, H(guesses...))
func (s *Submission) Hash(h crypto.FieldHasher) field.Element {
	guesses := h.Hash(s.Guesses...)
	return h.Hash(PlayerElement(s.Player), guesses)
}

// HashedSubmission 加盐之后的提交, 作为公开事件发布, 不泄露猜测的数
type HashedSubmission struct {
	Index  int64    `json:"index"`
	Player string   `json:"player"`
	Salt   string   `json:"salt"`
	Hashes []string `json:"hashes"`
}

// ToHashed 每个猜测的数 H(guess, salt)
func (s *Submission) ToHashed(h crypto.FieldHasher, salt field.Element) *HashedSubmission {
	hashes := make([]string, len(s.Guesses))
	for i := range s.Guesses {
		hashes[i] = field.Hex(h.Hash(s.Guesses[i], salt))
	}
	return &HashedSubmission{
		Player: s.Player,
		Salt:   field.Hex(salt),
		Hashes: hashes,
	}
}

// VerifyHashed 玩家事后公开猜测的数, 任何人都可以和事件核对
func VerifyHashed(h crypto.FieldHasher, hashed *HashedSubmission, guesses []field.Element) bool {
	if hashed == nil || len(hashed.Hashes) != len(guesses) {
		return false
	}
	salt, err := field.Parse(hashed.Salt)
	if err != nil {
		return false
	}
	for i := range guesses {
		if field.Hex(h.Hash(guesses[i], salt)) != hashed.Hashes[i] {
			return false
		}
	}
	return true
}
