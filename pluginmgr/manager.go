// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pluginmgr

import (
	"sort"
	"sync"

	"github.com/33cn/guessnum/system/dapp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	pluginItems = make(map[string]Plugin)
	mu          sync.RWMutex
)

// Register 注册插件, 一般在插件包的 init 中调用
func Register(p Plugin) {
	if p == nil {
		panic("plugin param is nil")
	}
	packageName := p.GetName()
	if len(packageName) == 0 {
		panic("plugin package name is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := pluginItems[packageName]; ok {
		panic("execute plugin item is existed. name = " + packageName)
	}
	pluginItems[packageName] = p
}

func items() []Plugin {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(pluginItems))
	for name := range pluginItems {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]Plugin, len(names))
	for i, name := range names {
		list[i] = pluginItems[name]
	}
	return list
}

// InitExec 把所有插件的执行器注册到 reg
func InitExec(reg *dapp.Registry, sub map[string][]byte) error {
	for _, item := range items() {
		if err := item.InitExec(reg, sub); err != nil {
			return errors.Wrapf(err, "plugin %s", item.GetName())
		}
	}
	return nil
}

// HasExec 是否有插件提供这个执行器
func HasExec(name string) bool {
	for _, item := range items() {
		if item.GetExecutorName() == name {
			return true
		}
	}
	return false
}

// Names 已注册的插件
func Names() []string {
	list := items()
	names := make([]string, len(list))
	for i, item := range list {
		names[i] = item.GetName()
	}
	return names
}

// AddCmd 添加所有插件的命令行
func AddCmd(rootCmd *cobra.Command) {
	for _, item := range items() {
		item.AddCmd(rootCmd)
	}
}
