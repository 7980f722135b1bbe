// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "github.com/33cn/guessnum/types"

// GuessX 执行器名字
const GuessX = "guess"

// ExecerGuess 执行器名字
var ExecerGuess = []byte(GuessX)

// action ty
const (
	GuessActionInit = iota + 1
	GuessActionSubmit
	GuessActionConclude
)

// log ty
const (
	TyLogGuessInit       = 751
	TyLogGuessSubmission = 752
	TyLogGuessState      = 753
	TyLogGuessConclude   = 754
)

// LogNameNewSubmission 提交事件的公开名字
const LogNameNewSubmission = "new-submission"

// query func name
const (
	FuncNameGetGameInfo        = "GetGameInfo"
	FuncNameGetSubmissionCount = "GetSubmissionCount"
	FuncNameGetPool            = "GetPool"
)

// GameKey 公开状态在状态数据库中的 key
const GameKey = "mavl-" + GuessX + "-game"

func init() {
	types.RegisterLogType(TyLogGuessInit, "LogGuessInit")
	types.RegisterLogType(TyLogGuessSubmission, LogNameNewSubmission)
	types.RegisterLogType(TyLogGuessState, "LogGuessState")
	types.RegisterLogType(TyLogGuessConclude, "LogGuessConclude")
}
