// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/guessnum/account"
	dbm "github.com/33cn/guessnum/common/db"
	"github.com/33cn/guessnum/common/field"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	"github.com/33cn/guessnum/system/dapp"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
)

// Key 公开状态的 key
func Key() []byte {
	return []byte(gty.GameKey)
}

// Action 一笔交易的执行环境
type Action struct {
	g            *Guess
	coinsAccount *account.DB
	db           dbm.KV
	txhash       []byte
	fromaddr     string
	blocktime    int64
	height       int64
	execaddr     string
	index        int
}

// NewAction new
func NewAction(g *Guess, tx *types.Transaction, index int) *Action {
	return &Action{
		g:            g,
		coinsAccount: g.GetCoinsAccount(),
		db:           g.GetStateDB(),
		txhash:       tx.Hash(),
		fromaddr:     tx.From(),
		blocktime:    g.GetBlockTime(),
		height:       g.GetHeight(),
		execaddr:     dapp.ExecAddress(string(tx.Execer)),
		index:        index,
	}
}

func readGame(db dbm.KV) (*gty.GameInfo, error) {
	data, err := db.Get(Key())
	if err == types.ErrNotFound {
		return nil, gty.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var game gty.GameInfo
	if err := types.Decode(data, &game); err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	return &game, nil
}

func (action *Action) saveGame(game *gty.GameInfo) (kvset []*types.KeyValue, err error) {
	value := types.Encode(game)
	if err := action.db.Set(Key(), value); err != nil {
		return nil, err
	}
	return []*types.KeyValue{{Key: Key(), Value: value}}, nil
}

// loadState 从状态数据库读取公开状态, 并和执行器内部的副本逐项核对
func (action *Action) loadState() (*gty.GameInfo, error) {
	game, err := readGame(action.db)
	g := action.g
	if err == gty.ErrGameNotFound && g.game != nil {
		return nil, gty.ErrStateMismatch
	}
	if err != nil {
		return nil, err
	}
	if g.game == nil || *game != *g.game {
		return nil, gty.ErrStateMismatch
	}
	if game.SubmissionHash != field.Hex(g.ledger.digest()) || game.Submissions != int64(g.ledger.len()) {
		return nil, gty.ErrStateMismatch
	}
	if game.SecretNumberHash != field.Hex(g.secret.Digest()) {
		return nil, gty.ErrStateMismatch
	}
	return game, nil
}

// isValidAndActive 提交窗口 [startBlock, endBlock], 两端都包含
func (action *Action) isValidAndActive(game *gty.GameInfo) error {
	if !game.Active {
		return gty.ErrGameInactive
	}
	if action.height < game.StartBlock || action.height > game.EndBlock {
		return errors.Wrapf(gty.ErrOutOfWindow, "height %d window [%d, %d]", action.height, game.StartBlock, game.EndBlock)
	}
	return nil
}

// canFinish 窗口结束之后才能结算
func (action *Action) canFinish(game *gty.GameInfo) error {
	if !game.Active {
		return gty.ErrGameInactive
	}
	if action.height <= game.EndBlock {
		return errors.Wrapf(gty.ErrWindowNotClosed, "height %d endBlock %d", action.height, game.EndBlock)
	}
	return nil
}

// GameInit 创建游戏, 只能执行一次
func (action *Action) GameInit(init *gty.GuessInit) (*types.Receipt, error) {
	g := action.g
	if g.game != nil {
		return nil, gty.ErrGameExists
	}
	if _, err := readGame(action.db); err != gty.ErrGameNotFound {
		if err == nil {
			// 公开状态存在而内部状态没有, 秘密数已经丢失
			return nil, gty.ErrStateMismatch
		}
		return nil, err
	}
	c, err := commit(g.hasher, g.rand)
	if err != nil {
		glog.Error("GameInit", "addr", action.fromaddr, "err", err)
		return nil, err
	}
	game := &gty.GameInfo{
		Status:           gty.GameStatusActive,
		Active:           true,
		Origin:           action.fromaddr,
		StartBlock:       action.height,
		EndBlock:         action.height + g.cfg.Duration,
		Fee:              g.cfg.OriginatorFee,
		PerGuessCost:     g.cfg.PerGuessCost,
		HashType:         g.hasher.Name(),
		SubmissionHash:   field.Hex(field.Zero()),
		SecretNumberHash: field.Hex(c.Digest()),
	}
	kv, err := action.saveGame(game)
	if err != nil {
		return nil, err
	}
	r := &gty.ReceiptGuessInit{
		Origin:           game.Origin,
		StartBlock:       game.StartBlock,
		EndBlock:         game.EndBlock,
		Fee:              game.Fee,
		PerGuessCost:     game.PerGuessCost,
		HashType:         game.HashType,
		SecretNumberHash: game.SecretNumberHash,
	}
	logs := []*types.ReceiptLog{{Ty: gty.TyLogGuessInit, Log: types.Encode(r)}}
	l := newLedger(g.hasher)
	g.pending = func() {
		g.game = game
		g.secret = c
		g.ledger = l
	}
	glog.Info("GameInit", "origin", game.Origin, "start", game.StartBlock, "end", game.EndBlock)
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameSubmit 付费提交
func (action *Action) GameSubmit(submit *gty.GuessSubmit) (*types.Receipt, error) {
	g := action.g
	game, err := action.loadState()
	if err != nil {
		glog.Error("GameSubmit", "addr", action.fromaddr, "err", err)
		return nil, err
	}
	if err := action.isValidAndActive(game); err != nil {
		glog.Error("GameSubmit", "addr", action.fromaddr, "height", action.height, "err", err)
		return nil, err
	}
	sub, err := parseSubmission(submit, action.fromaddr)
	if err != nil {
		glog.Error("GameSubmit", "addr", action.fromaddr, "err", err)
		return nil, err
	}
	cost, err := types.SafeMul(game.PerGuessCost, int64(len(sub.Guesses)))
	if err != nil || !types.CheckAmount(cost) {
		return nil, types.ErrAmount
	}
	receipt, err := action.coinsAccount.Transfer(action.fromaddr, action.execaddr, cost)
	if err != nil {
		glog.Error("GameSubmit.Transfer", "addr", action.fromaddr, "execaddr", action.execaddr, "amount", cost, "err", err)
		return nil, err
	}
	salt, err := field.Random(g.rand)
	if err != nil {
		return nil, err
	}
	acc := g.ledger.next(sub)
	hashed := sub.ToHashed(g.hasher, salt)
	hashed.Index = game.Submissions

	game.SubmissionHash = field.Hex(acc)
	game.Submissions++
	kv, err := action.saveGame(game)
	if err != nil {
		return nil, err
	}
	pool := action.coinsAccount.LoadAccount(action.execaddr).GetBalance()
	state := &gty.ReceiptGuessState{SubmissionHash: game.SubmissionHash, Submissions: game.Submissions, Pool: pool}

	var logs []*types.ReceiptLog
	logs = append(logs, &types.ReceiptLog{Ty: gty.TyLogGuessSubmission, Log: types.Encode(hashed)})
	logs = append(logs, &types.ReceiptLog{Ty: gty.TyLogGuessState, Log: types.Encode(state)})
	logs = append(logs, receipt.Logs...)
	kv = append(kv, receipt.KV...)

	g.pending = func() {
		g.ledger.append(sub, acc)
		g.game = game
		g.metrics.submissions.Inc(1)
		g.metrics.guesses.Inc(int64(len(sub.Guesses)))
		g.metrics.pool.Update(pool)
	}
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameConclude 结算, 手续费给创建者, 剩余的全部给赢家
func (action *Action) GameConclude(conclude *gty.GuessConclude) (*types.Receipt, error) {
	g := action.g
	game, err := action.loadState()
	if err != nil {
		glog.Error("GameConclude", "addr", action.fromaddr, "err", err)
		return nil, err
	}
	if err := action.canFinish(game); err != nil {
		glog.Error("GameConclude", "addr", action.fromaddr, "height", action.height, "err", err)
		return nil, err
	}
	if action.fromaddr != game.Origin {
		glog.Error("GameConclude", "addr", action.fromaddr, "origin", game.Origin, "err", gty.ErrNotOrigin)
		return nil, gty.ErrNotOrigin
	}
	secret, err := g.secret.reveal()
	if err != nil {
		glog.Error("GameConclude", "err", err)
		return nil, err
	}
	winner, dist, ok := selectWinner(secret, g.ledger.subs)
	pool := action.coinsAccount.LoadAccount(action.execaddr).GetBalance()
	fee, rest := payout(pool, game.Fee)

	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	transfer := func(to string, amount int64) error {
		if amount == 0 {
			return nil
		}
		receipt, err := action.coinsAccount.Transfer(action.execaddr, to, amount)
		if err != nil {
			glog.Error("GameConclude.Transfer", "execaddr", action.execaddr, "to", to, "amount", amount, "err", err)
			return err
		}
		logs = append(logs, receipt.Logs...)
		kv = append(kv, receipt.KV...)
		return nil
	}
	if err := transfer(game.Origin, fee); err != nil {
		return nil, err
	}
	// 没有人提交时剩余资金退还给创建者
	to := winner
	if !ok {
		to = game.Origin
	}
	if err := transfer(to, rest); err != nil {
		return nil, err
	}
	if err := action.checkPoolClosed(); err != nil {
		return nil, err
	}

	game.Active = false
	game.Status = gty.GameStatusConcluded
	game.Winner = winner
	gkv, err := action.saveGame(game)
	if err != nil {
		return nil, err
	}
	kv = append(gkv, kv...)
	r := &gty.ReceiptGuessConclude{
		Origin:   game.Origin,
		Winner:   winner,
		NoWinner: !ok,
		Secret:   secret.String(),
		Fee:      fee,
		Payout:   rest,
	}
	if ok {
		r.Distance = dist.String()
	}
	logs = append([]*types.ReceiptLog{{Ty: gty.TyLogGuessConclude, Log: types.Encode(r)}}, logs...)
	g.pending = func() {
		g.game = game
		g.metrics.concluded.Inc(1)
		g.metrics.pool.Update(0)
	}
	glog.Info("GameConclude", "winner", winner, "noWinner", !ok, "fee", fee, "payout", rest)
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// checkPoolClosed 结算之后资金池必须正好为零
func (action *Action) checkPoolClosed() error {
	balance := action.coinsAccount.LoadAccount(action.execaddr).GetBalance()
	if balance != 0 {
		glog.Error("GameConclude", "execaddr", action.execaddr, "balance", balance, "err", gty.ErrBalanceNotClosed)
		return errors.Wrapf(gty.ErrBalanceNotClosed, "pool balance %d", balance)
	}
	return nil
}
