// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands guess 命令行
package commands

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/33cn/guessnum/common"
	"github.com/33cn/guessnum/common/crypto"
	dbm "github.com/33cn/guessnum/common/db"
	"github.com/33cn/guessnum/common/field"
	log "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/events"
	host "github.com/33cn/guessnum/executor"
	"github.com/33cn/guessnum/metrics"
	"github.com/33cn/guessnum/plugin/dapp/guess/executor"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	"github.com/33cn/guessnum/types"
	"github.com/33cn/guessnum/util"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	go_metrics "github.com/rcrowley/go-metrics"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var clog = log.New("module", "guess.commands")

// Cmd guess 命令
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guess",
		Short: "Number guessing game",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		SimulateCmd(),
		VerifyCmd(),
	)
	return cmd
}

// History simulate 导出的提交记录, verify 用它重算累加器
type History struct {
	HashType       string            `json:"hashType"`
	SubmissionHash string            `json:"submissionHash"`
	Submissions    []*gty.Submission `json:"submissions"`
}

// SimulateCmd 在本地状态库上跑一局完整的游戏
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a whole game on a local state db",
		RunE:  simulate,
	}
	addSimulateFlags(cmd)
	return cmd
}

func addSimulateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("conf", "c", "", "config file, default config if empty")
	cmd.Flags().StringP("guesses", "g", "3,9;6;1,1,1", "guesses of each player, players split by ';' and guesses by ','")
	cmd.Flags().IntP("players", "p", 0, "number of players, players without guesses only watch")
	cmd.Flags().StringP("secret", "s", "", "fix the secret number, random if empty")
	cmd.Flags().Float64P("balance", "b", 100, "genesis coins of each player")
	cmd.Flags().String("history", "", "write the accepted submissions to this file, must not exist")
	cmd.Flags().Bool("metrics", false, "print metrics after the game")
}

// SimulateParams simulate 的参数
type SimulateParams struct {
	Conf    string
	Guesses [][]field.Element
	Players int
	Secret  *field.Element
	Balance int64
	Metrics io.Writer
}

// PlayerResult 玩家结算前后的余额
type PlayerResult struct {
	Addr    string
	Guesses []field.Element
	Before  int64
	After   int64
}

// SimulateResult simulate 的结果
type SimulateResult struct {
	Origin      PlayerResult
	Players     []PlayerResult
	Game        *gty.GameInfo
	Conclude    *gty.ReceiptGuessConclude
	Submissions []*gty.Submission
}

func simulate(cmd *cobra.Command, args []string) error {
	conf, _ := cmd.Flags().GetString("conf")
	guesses, _ := cmd.Flags().GetString("guesses")
	players, _ := cmd.Flags().GetInt("players")
	secret, _ := cmd.Flags().GetString("secret")
	balance, _ := cmd.Flags().GetFloat64("balance")
	history, _ := cmd.Flags().GetString("history")
	withMetrics, _ := cmd.Flags().GetBool("metrics")
	if history != "" && util.CheckFileIsExist(history) {
		return errors.Errorf("history file %s exists", history)
	}

	params := &SimulateParams{Conf: conf, Players: players}
	var err error
	if params.Guesses, err = ParseGuesses(guesses); err != nil {
		return err
	}
	if secret != "" {
		s, err := field.Parse(secret)
		if err != nil {
			return errors.Wrapf(err, "secret %s", secret)
		}
		params.Secret = &s
	}
	if params.Balance, err = CoinsToAmount(balance); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if withMetrics {
		params.Metrics = out
	}
	res, err := Simulate(context.Background(), params)
	if err != nil {
		return err
	}
	if err := printResult(out, res); err != nil {
		return err
	}
	if history == "" {
		return nil
	}
	h := &History{
		HashType:       res.Game.HashType,
		SubmissionHash: res.Game.SubmissionHash,
		Submissions:    res.Submissions,
	}
	if _, err := util.WriteStringToFile(history, util.JSONString(h)); err != nil {
		return err
	}
	fmt.Fprintln(out, "history written to", history)
	return nil
}

// ParseGuesses "3,9;6;1,1,1" 形式的猜测列表, 空的玩家表示只观战
func ParseGuesses(s string) ([][]field.Element, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	groups := strings.Split(s, ";")
	all := make([][]field.Element, len(groups))
	for i, group := range groups {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		elems, err := field.ParseList(strings.Split(group, ","))
		if err != nil {
			return nil, errors.Wrapf(err, "player %d", i)
		}
		all[i] = elems
	}
	return all, nil
}

// CoinsToAmount 币数转换成最小单位
func CoinsToAmount(coins float64) (int64, error) {
	amount := decimal.NewFromFloat(coins).Mul(decimal.New(types.Coin, 0))
	if !amount.Equal(amount.Truncate(0)) || amount.IsNegative() || amount.GreaterThanOrEqual(decimal.New(types.MaxCoin, 0)) {
		return 0, errors.Wrapf(types.ErrAmount, "coins %v", coins)
	}
	return amount.IntPart(), nil
}

// FormatCoins 最小单位转换成币数
func FormatCoins(amount int64) string {
	return decimal.New(amount, -8).StringFixed(4)
}

func loadConfig(path string) (*types.Config, *types.ConfigSubModule, error) {
	if path == "" {
		return types.ParseCfgString("")
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read config %s", path)
	}
	return types.ParseCfgString(string(data))
}

// Simulate 创建者开局, 玩家在窗口内各提交一次, 窗口结束后创建者结算
func Simulate(ctx context.Context, p *SimulateParams) (*SimulateResult, error) {
	if p.Players == 0 {
		p.Players = len(p.Guesses)
	}
	if p.Players < len(p.Guesses) {
		return nil, errors.Errorf("%d players can not submit %d guess lists", p.Players, len(p.Guesses))
	}
	cfg, sub, err := loadConfig(p.Conf)
	if err != nil {
		return nil, err
	}
	log.SetFileLog(cfg.Log)

	db, err := dbm.NewDB(cfg.Store.Name, cfg.Store.Driver, cfg.Store.DbPath, int(cfg.Store.DbCache))
	if err != nil {
		return nil, err
	}
	defer db.Close()
	pub, err := events.NewPublisher(cfg.Event)
	if err != nil {
		return nil, err
	}
	e := host.New(db, pub)
	defer e.Close()

	reg := go_metrics.NewRegistry()
	mctx, cancel := context.WithCancel(ctx)
	defer cancel()
	metrics.StartMetrics(mctx, cfg.Metrics, reg)

	opts := []executor.Option{executor.WithMetrics(reg)}
	if p.Secret != nil {
		opts = append(opts, executor.WithRand(executor.SecretReader(*p.Secret, rand.Reader)))
	}
	g, err := executor.Init(e.Registry(), sub.Exec[gty.GuessX], opts...)
	if err != nil {
		return nil, err
	}

	res := &SimulateResult{}
	origin, originPriv := util.Genaddress()
	res.Origin = PlayerResult{Addr: origin}
	privs := make([]crypto.PrivKey, p.Players)
	for i := 0; i < p.Players; i++ {
		addr, priv := util.Genaddress()
		if p.Balance > 0 {
			if err := e.Genesis(addr, p.Balance); err != nil {
				return nil, err
			}
		}
		var guesses []field.Element
		if i < len(p.Guesses) {
			guesses = p.Guesses[i]
		}
		privs[i] = priv
		res.Players = append(res.Players, PlayerResult{Addr: addr, Guesses: guesses, Before: e.Balance(addr)})
	}

	e.NextBlock(1)
	if _, err := e.ExecTx(ctx, gty.CreateInitTx(originPriv, common.RandInt63())); err != nil {
		return nil, errors.Wrap(err, "init")
	}
	for i, pr := range res.Players {
		if len(pr.Guesses) == 0 {
			continue
		}
		if _, err := e.ExecTx(ctx, gty.CreateSubmitTx(privs[i], pr.Guesses, common.RandInt63())); err != nil {
			clog.Error("Simulate submit", "player", pr.Addr, "err", err)
			return nil, errors.Wrapf(err, "submit player %d", i)
		}
	}

	game, err := queryGame(e)
	if err != nil {
		return nil, err
	}
	e.NextBlock(game.EndBlock - e.Height() + 1)
	data, err := e.ExecTx(ctx, gty.CreateConcludeTx(originPriv, common.RandInt63()))
	if err != nil {
		return nil, errors.Wrap(err, "conclude")
	}
	for _, l := range data.Logs {
		if l.Ty != gty.TyLogGuessConclude {
			continue
		}
		var r gty.ReceiptGuessConclude
		if err := types.Decode(l.Log, &r); err != nil {
			return nil, err
		}
		res.Conclude = &r
	}
	if res.Game, err = queryGame(e); err != nil {
		return nil, err
	}
	if res.Submissions, err = g.Submissions(); err != nil {
		return nil, err
	}
	res.Origin.After = e.Balance(origin)
	for i := range res.Players {
		res.Players[i].After = e.Balance(res.Players[i].Addr)
	}
	if p.Metrics != nil {
		metrics.WriteOnce(reg, p.Metrics)
	}
	return res, nil
}

func queryGame(e *host.Executor) (*gty.GameInfo, error) {
	msg, err := e.Query(gty.GuessX, gty.FuncNameGetGameInfo, &gty.ReqNil{})
	if err != nil {
		return nil, err
	}
	game, ok := msg.(*gty.GameInfo)
	if !ok {
		return nil, types.ErrDecode
	}
	return game, nil
}

func printResult(out io.Writer, res *SimulateResult) error {
	data := pterm.TableData{{"Player", "Address", "Guesses", "Before", "After"}}
	data = append(data, []string{"origin", res.Origin.Addr, "", FormatCoins(res.Origin.Before), FormatCoins(res.Origin.After)})
	for i, pr := range res.Players {
		data = append(data, []string{
			fmt.Sprint(i),
			pr.Addr,
			strings.Join(field.Strings(pr.Guesses), ","),
			FormatCoins(pr.Before),
			FormatCoins(pr.After),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, table)

	c := res.Conclude
	var info string
	if c.NoWinner {
		info = pterm.Sprintfln("no winner, %s refunded to origin", FormatCoins(c.Payout))
	} else {
		info = pterm.Sprintfln("winner %s takes %s, distance %s", pterm.LightCyan(c.Winner), FormatCoins(c.Payout), c.Distance)
	}
	info += pterm.Sprintfln("secret %s", c.Secret)
	info += pterm.Sprintfln("fee %s", FormatCoins(c.Fee))
	info += pterm.Sprintfln("secretNumberHash %s", res.Game.SecretNumberHash)
	info += pterm.Sprintf("submissionHash %s", res.Game.SubmissionHash)
	box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTitle(pterm.LightGreen("|CONCLUDED|")).WithTitleTopCenter()
	fmt.Fprintln(out, box.Sprint(info))
	return nil
}

// VerifyCmd 用导出的提交记录重算 submissionHash
func VerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute the submission hash from a history file",
		RunE:  verify,
	}
	addVerifyFlags(cmd)
	return cmd
}

func addVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().String("history", "", "history file written by simulate")
	cmd.MarkFlagRequired("history")
	cmd.Flags().StringP("digest", "d", "", "claimed submission hash, default the one in the history file")
	cmd.Flags().String("hash", "", "hash type, default the one in the history file")
}

func verify(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("history")
	digest, _ := cmd.Flags().GetString("digest")
	hashType, _ := cmd.Flags().GetString("hash")

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read history %s", path)
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return errors.Wrap(types.ErrDecode, err.Error())
	}
	if digest != "" {
		h.SubmissionHash = digest
	}
	if hashType != "" {
		h.HashType = hashType
	}
	ok, err := VerifyHistory(&h)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, pterm.Error.Sprintfln("submission hash mismatch, %d submissions", len(h.Submissions)))
		return gty.ErrStateMismatch
	}
	fmt.Fprintln(out, pterm.Success.Sprintfln("submission hash matches, %d submissions", len(h.Submissions)))
	return nil
}

// VerifyHistory 按顺序重算累加器并和记录中的 submissionHash 比较
func VerifyHistory(h *History) (bool, error) {
	hasher, err := crypto.LoadHasher(h.HashType)
	if err != nil {
		return false, err
	}
	claimed, err := field.Parse(h.SubmissionHash)
	if err != nil {
		return false, errors.Wrapf(err, "submission hash %s", h.SubmissionHash)
	}
	return executor.VerifyHistory(hasher, h.Submissions, claimed), nil
}
