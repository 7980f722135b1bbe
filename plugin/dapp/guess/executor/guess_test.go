// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/33cn/guessnum/common/crypto"
	dbm "github.com/33cn/guessnum/common/db"
	"github.com/33cn/guessnum/common/field"
	"github.com/33cn/guessnum/events"
	host "github.com/33cn/guessnum/executor"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	"github.com/33cn/guessnum/system/dapp"
	"github.com/33cn/guessnum/types"
	"github.com/33cn/guessnum/util"
	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secretReader(secret uint64) io.Reader {
	return SecretReader(field.FromUint64(secret), rand.Reader)
}

type testEnv struct {
	t          *testing.T
	e          *host.Executor
	g          *Guess
	db         dbm.DB
	pub        *events.MockPublisher
	reg        metrics.Registry
	origin     string
	originPriv crypto.PrivKey
	nonce      int64
}

func newTestEnv(t *testing.T, secret uint64, sub string) *testEnv {
	db, err := dbm.NewGoMemDB("guess", "", 0)
	require.Nil(t, err)
	env := &testEnv{t: t, db: db, pub: &events.MockPublisher{}, reg: metrics.NewRegistry()}
	env.e = host.New(db, env.pub)
	env.g, err = Init(env.e.Registry(), []byte(sub), WithRand(secretReader(secret)), WithMetrics(env.reg))
	require.Nil(t, err)
	env.origin, env.originPriv = env.account(0)
	return env
}

func (env *testEnv) account(balance int64) (string, crypto.PrivKey) {
	addr, priv := util.Genaddress()
	if balance > 0 {
		require.Nil(env.t, env.e.Genesis(addr, balance))
	}
	return addr, priv
}

func (env *testEnv) exec(tx *types.Transaction) (*types.ReceiptData, error) {
	return env.e.ExecTx(context.Background(), tx)
}

func (env *testEnv) nextNonce() int64 {
	env.nonce++
	return env.nonce
}

func (env *testEnv) init() {
	_, err := env.exec(gty.CreateInitTx(env.originPriv, env.nextNonce()))
	require.Nil(env.t, err)
}

func (env *testEnv) submit(priv crypto.PrivKey, guesses ...uint64) (*types.ReceiptData, error) {
	return env.exec(gty.CreateSubmitTx(priv, elems(guesses...), env.nextNonce()))
}

func (env *testEnv) conclude(priv crypto.PrivKey) (*gty.ReceiptGuessConclude, error) {
	data, err := env.exec(gty.CreateConcludeTx(priv, env.nextNonce()))
	if err != nil {
		return nil, err
	}
	var r gty.ReceiptGuessConclude
	require.Nil(env.t, types.Decode(findLog(env.t, data, gty.TyLogGuessConclude), &r))
	return &r, nil
}

func (env *testEnv) gameInfo() *gty.GameInfo {
	msg, err := env.e.Query(gty.GuessX, gty.FuncNameGetGameInfo, &gty.ReqNil{})
	require.Nil(env.t, err)
	return msg.(*gty.GameInfo)
}

func (env *testEnv) pool() int64 {
	return env.e.Balance(dapp.ExecAddress(gty.GuessX))
}

// gotoHeight 只能向前
func (env *testEnv) gotoHeight(h int64) {
	env.e.NextBlock(h - env.e.Height())
	require.Equal(env.t, h, env.e.Height())
}

func findLog(t *testing.T, data *types.ReceiptData, ty int32) []byte {
	for _, l := range data.Logs {
		if l.Ty == ty {
			return l.Log
		}
	}
	t.Fatalf("log %d not found", ty)
	return nil
}

func elems(vs ...uint64) []field.Element {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		out[i] = field.FromUint64(v)
	}
	return out
}

func TestInitialState(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":100}`)
	env.gotoHeight(7)
	env.init()

	game := env.gameInfo()
	assert.True(t, game.Active)
	assert.Equal(t, gty.GameStatusActive, game.Status)
	assert.Equal(t, env.origin, game.Origin)
	assert.Equal(t, int64(7), game.StartBlock)
	assert.Equal(t, int64(107), game.EndBlock)
	assert.Equal(t, 2*types.Coin, game.Fee)
	assert.Equal(t, field.Hex(field.Zero()), game.SubmissionHash)

	h := env.g.Hasher()
	assert.Equal(t, field.Hex(h.Hash(field.FromUint64(5))), game.SecretNumberHash)
	assert.Equal(t, int64(0), game.Submissions)
	assert.Len(t, env.pub.Named("LogGuessInit"), 1)
}

func TestInitOnce(t *testing.T) {
	env := newTestEnv(t, 5, `{}`)
	env.init()
	_, err := env.exec(gty.CreateInitTx(env.originPriv, env.nextNonce()))
	assert.Equal(t, gty.ErrGameExists, err)
	assert.Equal(t, types.ErrClassPrecondition, types.ClassOf(err))
}

func TestSubmitBeforeInit(t *testing.T) {
	env := newTestEnv(t, 5, `{}`)
	_, priv := env.account(10 * types.Coin)
	_, err := env.submit(priv, 1)
	assert.Equal(t, gty.ErrGameNotFound, err)
	_, err = env.conclude(env.originPriv)
	assert.Equal(t, gty.ErrGameNotFound, err)
}

func TestWindowGating(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":5}`)
	env.gotoHeight(10)
	env.init()
	_, priv := env.account(10 * types.Coin)

	// startBlock
	_, err := env.submit(priv, 1)
	require.Nil(t, err)
	_, err = env.conclude(env.originPriv)
	assert.Equal(t, gty.ErrWindowNotClosed, errors.Cause(err))

	// endBlock
	env.gotoHeight(15)
	_, err = env.submit(priv, 2)
	require.Nil(t, err)
	_, err = env.conclude(env.originPriv)
	assert.Equal(t, gty.ErrWindowNotClosed, errors.Cause(err))

	// endBlock + 1
	env.gotoHeight(16)
	_, err = env.submit(priv, 3)
	assert.Equal(t, gty.ErrOutOfWindow, errors.Cause(err))
	assert.Equal(t, types.ErrClassPrecondition, types.ClassOf(err))
	assert.Equal(t, int64(2), env.gameInfo().Submissions)

	_, err = env.conclude(env.originPriv)
	require.Nil(t, err)
}

func TestFeeCorrectness(t *testing.T) {
	env := newTestEnv(t, 5, `{"perGuessCost":300}`)
	env.init()
	addr, priv := env.account(10 * types.Coin)

	_, err := env.submit(priv, 1, 2, 3, 4)
	require.Nil(t, err)
	assert.Equal(t, int64(1200), env.pool())
	assert.Equal(t, 10*types.Coin-1200, env.e.Balance(addr))

	_, err = env.submit(priv, 7)
	require.Nil(t, err)
	assert.Equal(t, int64(1500), env.pool())

	msg, err := env.e.Query(gty.GuessX, gty.FuncNameGetPool, &gty.ReqNil{})
	require.Nil(t, err)
	assert.Equal(t, int64(1500), msg.(*gty.ReplyPool).Balance)
	msg, err = env.e.Query(gty.GuessX, gty.FuncNameGetSubmissionCount, &gty.ReqNil{})
	require.Nil(t, err)
	assert.Equal(t, int64(2), msg.(*gty.ReplyCount).Count)
}

func TestSubmitReplay(t *testing.T) {
	env := newTestEnv(t, 5, `{"perGuessCost":100000000}`)
	env.init()
	addr, priv := env.account(10 * types.Coin)

	tx := gty.CreateSubmitTx(priv, elems(3, 9), env.nextNonce())
	_, err := env.exec(tx)
	require.Nil(t, err)
	game := env.gameInfo()
	assert.Equal(t, 2*types.Coin, env.pool())

	env.e.NextBlock(1)
	_, err = env.exec(tx)
	assert.Equal(t, types.ErrTxDup, err)
	assert.Equal(t, 2*types.Coin, env.pool())
	assert.Equal(t, 8*types.Coin, env.e.Balance(addr))
	assert.Equal(t, *game, *env.gameInfo())
	assert.Equal(t, int64(1), env.gameInfo().Submissions)
	assert.Len(t, env.pub.Named(gty.LogNameNewSubmission), 1)

	// 新的 nonce 是另一次授权
	_, err = env.submit(priv, 3, 9)
	require.Nil(t, err)
	assert.Equal(t, 4*types.Coin, env.pool())
	assert.Equal(t, int64(2), env.gameInfo().Submissions)

	env.gotoHeight(env.gameInfo().EndBlock + 1)
	_, err = env.conclude(env.originPriv)
	require.Nil(t, err)
	subs, err := env.g.Submissions()
	require.Nil(t, err)
	assert.Len(t, subs, 2)
}

func TestSubmitRejected(t *testing.T) {
	env := newTestEnv(t, 5, `{}`)
	env.init()
	before := env.gameInfo()
	addr, priv := env.account(types.Coin)

	// 余额不足, 状态不变
	_, err := env.submit(priv, 1, 2)
	assert.Equal(t, types.ErrNoBalance, errors.Cause(err))
	assert.Equal(t, before, env.gameInfo())
	assert.Equal(t, types.Coin, env.e.Balance(addr))
	assert.Equal(t, int64(0), env.pool())

	_, err = env.submit(priv)
	assert.Equal(t, gty.ErrNoGuesses, err)

	// 不能替别人提交
	other, _ := env.account(0)
	action := &gty.GuessAction{Ty: gty.GuessActionSubmit, Submit: &gty.GuessSubmit{Player: other, Guesses: []string{"1"}}}
	_, err = env.exec(gty.CreateTx(priv, action, env.nextNonce()))
	assert.Equal(t, gty.ErrPlayerMismatch, err)

	action = &gty.GuessAction{Ty: gty.GuessActionSubmit, Submit: &gty.GuessSubmit{Player: addr, Guesses: []string{field.Modulus().String()}}}
	_, err = env.exec(gty.CreateTx(priv, action, env.nextNonce()))
	assert.Equal(t, gty.ErrInvalidGuess, errors.Cause(err))

	_, err = env.exec(gty.CreateTx(priv, &gty.GuessAction{Ty: gty.GuessActionSubmit}, env.nextNonce()))
	assert.Equal(t, types.ErrActionNotSupport, err)

	assert.Equal(t, int64(0), env.gameInfo().Submissions)
	assert.Len(t, env.pub.Named(gty.LogNameNewSubmission), 0)
	assert.Equal(t, int64(4), metrics.GetOrRegisterCounter("guess/rejected", env.reg).Count())
}

func TestWinnerSelection(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":10}`)
	env.init()
	a, privA := env.account(10 * types.Coin)
	b, privB := env.account(10 * types.Coin)
	c, privC := env.account(10 * types.Coin)

	_, err := env.submit(privA, 3, 9)
	require.Nil(t, err)
	_, err = env.submit(privB, 6)
	require.Nil(t, err)
	_, err = env.submit(privC, 1, 1, 1)
	require.Nil(t, err)
	pool := env.pool()
	assert.Equal(t, 6*types.Coin, pool)
	originBefore := env.e.Balance(env.origin)
	bBefore := env.e.Balance(b)

	env.gotoHeight(11)
	r, err := env.conclude(env.originPriv)
	require.Nil(t, err)
	assert.Equal(t, b, r.Winner)
	assert.False(t, r.NoWinner)
	assert.Equal(t, "1", r.Distance)
	assert.Equal(t, "5", r.Secret)
	assert.Equal(t, 2*types.Coin, r.Fee)
	assert.Equal(t, pool-2*types.Coin, r.Payout)

	// 资金池清零
	assert.Equal(t, int64(0), env.pool())
	assert.Equal(t, originBefore+2*types.Coin, env.e.Balance(env.origin))
	assert.Equal(t, bBefore+pool-2*types.Coin, env.e.Balance(b))
	assert.Equal(t, 8*types.Coin, env.e.Balance(a))
	assert.Equal(t, 7*types.Coin, env.e.Balance(c))

	game := env.gameInfo()
	assert.False(t, game.Active)
	assert.Equal(t, gty.GameStatusConcluded, game.Status)
	assert.Equal(t, b, game.Winner)
}

func TestTieFirstWins(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":1}`)
	env.init()
	a, privA := env.account(types.Coin)
	_, privB := env.account(types.Coin)
	_, err := env.submit(privA, 4)
	require.Nil(t, err)
	_, err = env.submit(privB, 6)
	require.Nil(t, err)

	env.gotoHeight(2)
	r, err := env.conclude(env.originPriv)
	require.Nil(t, err)
	assert.Equal(t, a, r.Winner)
}

func TestSingleConclusion(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":1}`)
	env.init()
	_, priv := env.account(types.Coin)
	_, err := env.submit(priv, 5)
	require.Nil(t, err)
	env.gotoHeight(2)

	// 只有创建者可以结算
	_, err = env.conclude(priv)
	assert.Equal(t, gty.ErrNotOrigin, err)

	_, err = env.conclude(env.originPriv)
	require.Nil(t, err)
	_, err = env.conclude(env.originPriv)
	assert.Equal(t, gty.ErrGameInactive, err)
	_, err = env.submit(priv, 5)
	assert.Equal(t, gty.ErrGameInactive, err)
	assert.Equal(t, int64(1), metrics.GetOrRegisterCounter("guess/concluded", env.reg).Count())
}

func TestConcludeNoSubmissions(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":1}`)
	env.init()
	// 直接转入资金池的币在没有赢家时退还给创建者
	_, donor := env.account(10 * types.Coin)
	_, err := env.exec(util.CreateCoinsTx(donor, dapp.ExecAddress(gty.GuessX), 5*types.Coin))
	require.Nil(t, err)

	env.gotoHeight(2)
	r, err := env.conclude(env.originPriv)
	require.Nil(t, err)
	assert.True(t, r.NoWinner)
	assert.Equal(t, "", r.Winner)
	assert.Equal(t, "", r.Distance)
	assert.Equal(t, 2*types.Coin, r.Fee)
	assert.Equal(t, 3*types.Coin, r.Payout)
	assert.Equal(t, 5*types.Coin, env.e.Balance(env.origin))
	assert.Equal(t, int64(0), env.pool())
}

func TestConcludeEmptyPool(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":1}`)
	env.init()
	env.gotoHeight(2)
	r, err := env.conclude(env.originPriv)
	require.Nil(t, err)
	assert.True(t, r.NoWinner)
	assert.Equal(t, int64(0), r.Fee)
	assert.Equal(t, int64(0), r.Payout)
	assert.False(t, env.gameInfo().Active)
}

func TestFeeCappedAtPool(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":1,"perGuessCost":100,"originatorFee":1000}`)
	env.init()
	addr, priv := env.account(types.Coin)
	_, err := env.submit(priv, 9)
	require.Nil(t, err)
	env.gotoHeight(2)
	r, err := env.conclude(env.originPriv)
	require.Nil(t, err)
	assert.Equal(t, addr, r.Winner)
	assert.Equal(t, int64(100), r.Fee)
	assert.Equal(t, int64(0), r.Payout)
	assert.Equal(t, int64(100), env.e.Balance(env.origin))
	assert.Equal(t, int64(0), env.pool())
}

func TestAccumulatorUpdate(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":1}`)
	env.init()
	a, privA := env.account(types.Coin * 10)
	b, privB := env.account(types.Coin * 10)
	h := env.g.Hasher()

	_, err := env.submit(privA, 3, 9)
	require.Nil(t, err)
	s1 := &gty.Submission{Player: a, Guesses: elems(3, 9)}
	assert.Equal(t, field.Hex(h.Hash(s1.Hash(h), field.Zero())), env.gameInfo().SubmissionHash)

	_, err = env.submit(privB, 6)
	require.Nil(t, err)
	s2 := &gty.Submission{Player: b, Guesses: elems(6)}
	game := env.gameInfo()
	assert.Equal(t, field.Hex(Accumulate(h, s1, s2)), game.SubmissionHash)
	assert.NotEqual(t, field.Hex(Accumulate(h, s2, s1)), game.SubmissionHash)

	// 结算之前不公开原始提交
	_, err = env.g.Submissions()
	assert.Equal(t, gty.ErrWindowNotClosed, err)

	env.gotoHeight(2)
	_, err = env.conclude(env.originPriv)
	require.Nil(t, err)
	subs, err := env.g.Submissions()
	require.Nil(t, err)
	claimed, err := field.Parse(game.SubmissionHash)
	require.Nil(t, err)
	assert.True(t, VerifyHistory(h, subs, claimed))
	assert.False(t, VerifyHistory(h, subs[:1], claimed))
}

func TestSubmissionEvent(t *testing.T) {
	env := newTestEnv(t, 5, `{}`)
	env.init()
	addr, priv := env.account(types.Coin * 10)
	_, err := env.submit(priv, 4, 6)
	require.Nil(t, err)
	_, err = env.submit(priv, 4, 6)
	require.Nil(t, err)

	evs := env.pub.Named(gty.LogNameNewSubmission)
	require.Len(t, evs, 2)
	var first, second gty.HashedSubmission
	require.Nil(t, types.Decode(evs[0].Data, &first))
	require.Nil(t, types.Decode(evs[1].Data, &second))
	assert.Equal(t, addr, first.Player)
	assert.Equal(t, int64(0), first.Index)
	assert.Equal(t, int64(1), second.Index)
	// 事件中没有原始的数, 盐每次都不同
	assert.NotContains(t, string(evs[0].Data), `"4"`)
	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.Hashes, second.Hashes)
	assert.True(t, gty.VerifyHashed(env.g.Hasher(), &first, elems(4, 6)))
	assert.False(t, gty.VerifyHashed(env.g.Hasher(), &first, elems(4, 7)))

	assert.Equal(t, int64(2), metrics.GetOrRegisterCounter("guess/submissions", env.reg).Count())
	assert.Equal(t, int64(4), metrics.GetOrRegisterCounter("guess/guesses", env.reg).Count())
	assert.Equal(t, 4*types.Coin, metrics.GetOrRegisterGauge("guess/pool", env.reg).Value())
}

func TestStateMismatch(t *testing.T) {
	env := newTestEnv(t, 5, `{"duration":10}`)
	env.init()
	_, priv := env.account(types.Coin * 10)

	// 绕过执行器直接修改公开状态
	game := env.gameInfo()
	game.EndBlock = 1000
	require.Nil(t, util.SaveKVList(env.db, []*types.KeyValue{{Key: Key(), Value: types.Encode(game)}}))

	_, err := env.submit(priv, 1)
	assert.Equal(t, gty.ErrStateMismatch, err)
	assert.Equal(t, types.ErrClassConsistency, types.ClassOf(err))

	env.gotoHeight(11)
	_, err = env.conclude(env.originPriv)
	assert.Equal(t, gty.ErrStateMismatch, err)

	// 公开状态被删除
	require.Nil(t, util.SaveKVList(env.db, []*types.KeyValue{{Key: Key(), Value: nil}}))
	_, err = env.conclude(env.originPriv)
	assert.Equal(t, gty.ErrStateMismatch, err)
}

func TestCommitmentIntegrity(t *testing.T) {
	env := newTestEnv(t, 123456789, `{"duration":1}`)
	env.init()
	_, priv := env.account(types.Coin)
	_, err := env.submit(priv, 1)
	require.Nil(t, err)
	published := env.gameInfo().SecretNumberHash

	env.gotoHeight(2)
	r, err := env.conclude(env.originPriv)
	require.Nil(t, err)
	secret, err := field.Parse(r.Secret)
	require.Nil(t, err)
	assert.Equal(t, published, field.Hex(env.g.Hasher().Hash(secret)))
}

func TestCommitReveal(t *testing.T) {
	h, _ := crypto.LoadHasher(crypto.HashMiMC)
	c, err := commit(h, rand.Reader)
	require.Nil(t, err)
	secret, err := c.reveal()
	require.Nil(t, err)
	assert.Equal(t, h.Hash(secret), c.Digest())

	c.secret = field.FromUint64(1)
	_, err = c.reveal()
	assert.Equal(t, gty.ErrCommitmentMismatch, err)

	_, err = commit(h, bytes.NewReader([]byte{1}))
	assert.NotNil(t, err)
}

func TestCheckPoolClosed(t *testing.T) {
	env := newTestEnv(t, 5, `{}`)
	db, _ := dbm.NewGoMemDB("pool", "", 0)
	env.g.SetStateDB(db)
	tx := gty.CreateConcludeTx(env.originPriv, 1)
	action := NewAction(env.g, tx, 0)
	assert.Nil(t, action.checkPoolClosed())

	_, err := action.coinsAccount.GenesisInit(action.execaddr, 1)
	require.Nil(t, err)
	err = action.checkPoolClosed()
	assert.Equal(t, gty.ErrBalanceNotClosed, errors.Cause(err))
	assert.Equal(t, types.ErrClassBalanceInvariant, types.ClassOf(err))
}

func TestInitBadConfig(t *testing.T) {
	db, _ := dbm.NewGoMemDB("guess", "", 0)
	e := host.New(db, nil)
	_, err := Init(e.Registry(), []byte(`{"hashType":"md5"}`))
	assert.Equal(t, types.ErrConfig, errors.Cause(err))
}
