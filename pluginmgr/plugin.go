// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pluginmgr 插件注册, 每个插件提供一个执行器和它的命令行
package pluginmgr

import (
	"github.com/33cn/guessnum/system/dapp"
	"github.com/spf13/cobra"
)

// Plugin 插件
type Plugin interface {
	// 获取整个插件的包名，用以计算唯一值、做前缀等
	GetName() string
	// 获取插件中执行器名
	GetExecutorName() string
	// 初始化执行器时会调用该接口
	InitExec(reg *dapp.Registry, sub map[string][]byte) error
	AddCmd(rootCmd *cobra.Command)
}
