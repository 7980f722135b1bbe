// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 猜数字游戏的执行器
//
// 玩家按次付费提交猜测的数, 窗口结束后由创建者结算,
// 距离秘密数最近的玩家拿走资金池中扣除手续费之后的全部资金.
// 秘密数和提交的原始数据只保存在执行器内存中, 状态数据库中只有它们的哈希
package executor

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/common/field"
	log "github.com/33cn/guessnum/common/log"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	drivers "github.com/33cn/guessnum/system/dapp"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
)

var glog = log.New("module", "execs.guess")

// Option 执行器选项
type Option func(*Guess)

// WithRand 随机数来源, 默认 crypto/rand
func WithRand(r io.Reader) Option {
	return func(g *Guess) {
		g.rand = r
	}
}

// WithMetrics 统计注册表, 默认 go-metrics 的 DefaultRegistry
func WithMetrics(r metrics.Registry) Option {
	return func(g *Guess) {
		g.metrics = newGuessMetrics(r)
	}
}

// Init 解析 exec.sub.guess 配置并注册到宿主
func Init(reg *drivers.Registry, sub []byte, opts ...Option) (*Guess, error) {
	cfg, err := gty.ParseConfig(sub)
	if err != nil {
		return nil, err
	}
	g, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	// 私有状态属于唯一的实例
	reg.Register(gty.GuessX, func() drivers.Driver { return g }, 0)
	return g, nil
}

// Guess 执行器
type Guess struct {
	drivers.DriverBase
	mu      sync.Mutex
	cfg     *gty.Config
	hasher  crypto.FieldHasher
	rand    io.Reader
	metrics *guessMetrics

	// 以下私有状态只在 Commit 中修改
	game    *gty.GameInfo
	secret  *commitment
	ledger  *ledger
	pending func()
}

// New 创建执行器
func New(cfg *gty.Config, opts ...Option) (*Guess, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h, err := crypto.LoadHasher(cfg.HashType)
	if err != nil {
		return nil, err
	}
	g := &Guess{cfg: cfg, hasher: h, rand: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics == nil {
		g.metrics = newGuessMetrics(nil)
	}
	g.SetChild(g)
	return g, nil
}

// GetDriverName 名字
func (g *Guess) GetDriverName() string {
	return gty.GuessX
}

// Hasher 当前使用的哈希
func (g *Guess) Hasher() crypto.FieldHasher {
	return g.hasher
}

func decodeAction(tx *types.Transaction) (*gty.GuessAction, error) {
	var action gty.GuessAction
	if err := types.Decode(tx.Payload, &action); err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	switch {
	case action.Ty == gty.GuessActionInit && action.Init != nil:
	case action.Ty == gty.GuessActionSubmit && action.Submit != nil:
	case action.Ty == gty.GuessActionConclude && action.Conclude != nil:
	default:
		return nil, types.ErrActionNotSupport
	}
	return &action, nil
}

// CheckTx 不依赖状态的检查
func (g *Guess) CheckTx(tx *types.Transaction, index int) error {
	action, err := decodeAction(tx)
	if err != nil {
		return err
	}
	if action.Ty != gty.GuessActionSubmit {
		return nil
	}
	_, err = parseSubmission(action.Submit, tx.From())
	if err != nil {
		g.metrics.rejected.Inc(1)
	}
	return err
}

func parseSubmission(submit *gty.GuessSubmit, from string) (*gty.Submission, error) {
	if submit.Player != from {
		return nil, gty.ErrPlayerMismatch
	}
	if len(submit.Guesses) == 0 {
		return nil, gty.ErrNoGuesses
	}
	guesses, err := field.ParseList(submit.Guesses)
	if err != nil {
		return nil, errors.Wrap(gty.ErrInvalidGuess, err.Error())
	}
	return &gty.Submission{Player: submit.Player, Guesses: guesses}, nil
}

// Exec 执行, 私有状态的修改暂存到 Commit
func (g *Guess) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
	action, err := decodeAction(tx)
	if err != nil {
		return nil, err
	}
	glog.Debug("exec guess tx", "ty", action.Ty, "from", tx.From())
	actiondb := NewAction(g, tx, index)
	var receipt *types.Receipt
	switch action.Ty {
	case gty.GuessActionInit:
		receipt, err = actiondb.GameInit(action.Init)
	case gty.GuessActionSubmit:
		receipt, err = actiondb.GameSubmit(action.Submit)
	case gty.GuessActionConclude:
		receipt, err = actiondb.GameConclude(action.Conclude)
	}
	if err != nil {
		g.pending = nil
		if action.Ty == gty.GuessActionSubmit {
			g.metrics.rejected.Inc(1)
		}
		return nil, err
	}
	return receipt, nil
}

// Commit 收据已经落盘, 应用暂存的私有状态
func (g *Guess) Commit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.pending()
		g.pending = nil
	}
}

// Rollback 丢弃暂存的私有状态
func (g *Guess) Rollback() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

// Submissions 结算之后公开全部提交, 任何人都可以用 VerifyHistory 核对
func (g *Guess) Submissions() ([]*gty.Submission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.game == nil {
		return nil, gty.ErrGameNotFound
	}
	if g.game.Active {
		return nil, gty.ErrWindowNotClosed
	}
	return g.ledger.submissions(), nil
}
