// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli 命令行入口, 插件通过 pluginmgr 添加自己的子命令
package cli

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/33cn/guessnum/common"
	"github.com/33cn/guessnum/common/address"
	log "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/pluginmgr"
	"github.com/33cn/guessnum/system/dapp"
	"github.com/33cn/guessnum/types"
	"github.com/33cn/guessnum/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewRootCmd 根命令, 包含系统命令和所有插件的命令
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "guess-cli",
		Short:         "guessnum client tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		KeyGenCmd(),
		ConfigCmd(),
	)
	pluginmgr.AddCmd(rootCmd)
	return rootCmd
}

// KeyGenCmd 生成私钥和地址
func KeyGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 key and its address",
		RunE:  keyGen,
	}
	cmd.Flags().StringP("key", "k", "", "print the address of this hex private key instead")
	return cmd
}

func keyGen(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	out := cmd.OutOrStdout()
	if key != "" {
		priv, err := util.HexToPrivkey(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "addr:", address.PubKeyToAddr(priv.PubKey().Bytes()))
		return nil
	}
	addr, priv := util.Genaddress()
	fmt.Fprintln(out, "addr:", addr)
	fmt.Fprintln(out, "privkey:", common.ToHex(priv.Bytes()))
	return nil
}

// ConfigCmd 检查配置文件并打印补全默认值之后的配置
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate a config file and print it merged with defaults",
		RunE:  checkConfig,
	}
	cmd.Flags().StringP("conf", "c", "", "config file, default config if empty")
	return cmd
}

func checkConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("conf")
	cfgstring := ""
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
		cfgstring = string(data)
	}
	merged, err := types.MergeCfgString(cfgstring, types.DefaultCfgString)
	if err != nil {
		return err
	}
	_, sub, err := types.ParseCfgString(cfgstring)
	if err != nil {
		return err
	}
	// 子配置由各自的执行器解析
	if err := pluginmgr.InitExec(dapp.NewRegistry(), sub.Exec); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), merged)
	return nil
}

//Run 执行命令行
func Run() {
	log.SetLogLevel("error")
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
