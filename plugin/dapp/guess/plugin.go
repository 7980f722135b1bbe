// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guess 猜数字插件
package guess

import (
	"github.com/33cn/guessnum/plugin/dapp/guess/commands"
	"github.com/33cn/guessnum/plugin/dapp/guess/executor"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	"github.com/33cn/guessnum/pluginmgr"
	"github.com/33cn/guessnum/system/dapp"
)

func init() {
	pluginmgr.Register(&pluginmgr.PluginBase{
		Name:     gty.GuessX,
		ExecName: gty.GuessX,
		Exec:     initExec,
		Cmd:      commands.Cmd,
	})
}

func initExec(reg *dapp.Registry, sub []byte) error {
	_, err := executor.Init(reg, sub)
	return err
}
