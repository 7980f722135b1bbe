// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCfgStringDefault(t *testing.T) {
	cfg, sub := InitCfgString("")
	assert.Equal(t, "guessnum", cfg.Title)
	assert.Equal(t, "memdb", cfg.Store.Driver)
	assert.Equal(t, "log", cfg.Event.Driver)
	assert.Equal(t, "error", cfg.Log.LogConsoleLevel)

	var guess map[string]interface{}
	MustDecode(sub.Exec["guess"], &guess)
	assert.Equal(t, float64(100), guess["duration"])
	assert.Equal(t, "mimc", guess["hashType"])
}

func TestInitCfgStringMerge(t *testing.T) {
	cfg, sub := InitCfgString(`
Title="local"
[store]
driver="goleveldb"
[exec.sub.guess]
duration=10
`)
	assert.Equal(t, "local", cfg.Title)
	assert.Equal(t, "goleveldb", cfg.Store.Driver)
	// 没有配置的项使用默认值
	assert.Equal(t, "state", cfg.Store.Name)

	var guess map[string]interface{}
	MustDecode(sub.Exec["guess"], &guess)
	assert.Equal(t, float64(10), guess["duration"])
	assert.Equal(t, float64(2*Coin), guess["originatorFee"])
}

func TestParseCfgStringError(t *testing.T) {
	_, _, err := ParseCfgString("store = 1")
	require.NotNil(t, err)
	assert.Equal(t, ErrConfig, errors.Cause(err))

	_, _, err = ParseCfgString("[store")
	assert.NotNil(t, err)
	assert.Panics(t, func() { InitCfgString("[store") })
}

func TestInitCfg(t *testing.T) {
	dir, err := ioutil.TempDir("", "guesscfg")
	require.Nil(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "guess.toml")
	require.Nil(t, ioutil.WriteFile(path, []byte("[event]\ndriver=\"none\"\n"), 0600))
	cfg, _ := InitCfg(path)
	assert.Equal(t, "none", cfg.Event.Driver)
	assert.Panics(t, func() { InitCfg(filepath.Join(dir, "missing.toml")) })
}

func TestMergeConfig(t *testing.T) {
	conf := map[string]interface{}{"a": map[string]interface{}{"b": 1}}
	def := map[string]interface{}{"a": map[string]interface{}{"b": 2, "c": 3}, "d": 4}
	assert.Equal(t, "", MergeConfig(conf, def))
	assert.Equal(t, 1, conf["a"].(map[string]interface{})["b"])
	assert.Equal(t, 3, conf["a"].(map[string]interface{})["c"])
	assert.Equal(t, 4, conf["d"])

	bad := map[string]interface{}{"a": 1}
	assert.NotEqual(t, "", MergeConfig(bad, def))
}
