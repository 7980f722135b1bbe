// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types guess 执行器的交易, 状态以及日志结构
package types

import (
	"encoding/json"

	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
)

// GameStatus 游戏状态
type GameStatus int32

// 游戏生命周期: Pending -> Active -> Concluded
const (
	GameStatusPending GameStatus = iota
	GameStatusActive
	GameStatusConcluded
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusPending:
		return "Pending"
	case GameStatusActive:
		return "Active"
	case GameStatusConcluded:
		return "Concluded"
	}
	return "Unknown"
}

// GuessAction payload
type GuessAction struct {
	Ty       int32          `json:"ty"`
	Init     *GuessInit     `json:"init,omitempty"`
	Submit   *GuessSubmit   `json:"submit,omitempty"`
	Conclude *GuessConclude `json:"conclude,omitempty"`
}

// GuessInit 创建游戏, 签名者成为 origin
type GuessInit struct{}

// GuessSubmit 提交猜测, 数值是十进制或者 0x 十六进制的域元素
type GuessSubmit struct {
	Player  string   `json:"player"`
	Guesses []string `json:"guesses"`
}

// GuessConclude 结算
type GuessConclude struct{}

// GameInfo 公开的只读状态
type GameInfo struct {
	Status           GameStatus `json:"status"`
	Active           bool       `json:"active"`
	Origin           string     `json:"origin"`
	StartBlock       int64      `json:"startBlock"`
	EndBlock         int64      `json:"endBlock"`
	Fee              int64      `json:"fee"`
	PerGuessCost     int64      `json:"perGuessCost"`
	HashType         string     `json:"hashType"`
	SubmissionHash   string     `json:"submissionHash"`
	SecretNumberHash string     `json:"secretNumberHash"`
	Submissions      int64      `json:"submissions"`
	Winner           string     `json:"winner,omitempty"`
}

// ReceiptGuessInit 创建日志
type ReceiptGuessInit struct {
	Origin           string `json:"origin"`
	StartBlock       int64  `json:"startBlock"`
	EndBlock         int64  `json:"endBlock"`
	Fee              int64  `json:"fee"`
	PerGuessCost     int64  `json:"perGuessCost"`
	HashType         string `json:"hashType"`
	SecretNumberHash string `json:"secretNumberHash"`
}

// ReceiptGuessState 每次提交后的累加器
type ReceiptGuessState struct {
	SubmissionHash string `json:"submissionHash"`
	Submissions    int64  `json:"submissions"`
	Pool           int64  `json:"pool"`
}

// ReceiptGuessConclude 结算日志, 同时公开秘密数
type ReceiptGuessConclude struct {
	Origin   string `json:"origin"`
	Winner   string `json:"winner,omitempty"`
	NoWinner bool   `json:"noWinner"`
	Secret   string `json:"secret"`
	Distance string `json:"distance,omitempty"`
	Fee      int64  `json:"fee"`
	Payout   int64  `json:"payout"`
}

// ReqNil 无参数查询
type ReqNil struct{}

// ReplyCount 计数
type ReplyCount struct {
	Count int64 `json:"count"`
}

// ReplyPool 资金池
type ReplyPool struct {
	Addr    string `json:"addr"`
	Balance int64  `json:"balance"`
}

// Config exec.sub.guess 配置
type Config struct {
	// 提交窗口的区块数
	Duration int64 `json:"duration"`
	// 每个猜测的费用
	PerGuessCost int64 `json:"perGuessCost"`
	// 结算时付给创建者的费用
	OriginatorFee int64  `json:"originatorFee"`
	HashType      string `json:"hashType"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Duration:      100,
		PerGuessCost:  types.Coin,
		OriginatorFee: 2 * types.Coin,
		HashType:      crypto.HashMiMC,
	}
}

// ParseConfig 解析子配置, 没有设置的项使用默认值
func ParseConfig(sub []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(sub) > 0 {
		if err := json.Unmarshal(sub, cfg); err != nil {
			return nil, errors.Wrapf(types.ErrConfig, "guess: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置
func (c *Config) Validate() error {
	if c.Duration <= 0 {
		return errors.Wrapf(types.ErrConfig, "guess: duration %d", c.Duration)
	}
	if !types.CheckAmount(c.PerGuessCost) {
		return errors.Wrapf(types.ErrConfig, "guess: perGuessCost %d", c.PerGuessCost)
	}
	if c.OriginatorFee < 0 || c.OriginatorFee >= types.MaxCoin {
		return errors.Wrapf(types.ErrConfig, "guess: originatorFee %d", c.OriginatorFee)
	}
	if _, err := crypto.LoadHasher(c.HashType); err != nil {
		return errors.Wrapf(types.ErrConfig, "guess: hashType %s", c.HashType)
	}
	return nil
}
