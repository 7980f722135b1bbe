// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/33cn/guessnum/plugin/dapp/guess"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, error) {
	out := new(bytes.Buffer)
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPluginCmd(t *testing.T) {
	cmd, _, err := NewRootCmd().Find([]string{"guess", "verify"})
	require.Nil(t, err)
	assert.Equal(t, "verify", cmd.Name())
}

func TestKeyGen(t *testing.T) {
	out, err := run("keygen")
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	addr := strings.TrimPrefix(lines[0], "addr: ")
	key := strings.TrimPrefix(lines[1], "privkey: ")

	out, err = run("keygen", "--key", key)
	require.Nil(t, err)
	assert.Equal(t, "addr: "+addr, strings.TrimSpace(out))

	_, err = run("keygen", "--key", "0xzz")
	assert.NotNil(t, err)
}

func TestConfig(t *testing.T) {
	out, err := run("config")
	require.Nil(t, err)
	assert.Contains(t, out, "perGuessCost")

	dir, err := ioutil.TempDir("", "guesscli")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "good.toml")
	require.Nil(t, ioutil.WriteFile(good, []byte("[store]\ndriver = \"leveldb\"\n"), 0644))
	out, err = run("config", "--conf", good)
	require.Nil(t, err)
	assert.Contains(t, out, "leveldb")

	// 表和普通值不能互相覆盖
	bad := filepath.Join(dir, "bad.toml")
	require.Nil(t, ioutil.WriteFile(bad, []byte("store = 1\n"), 0644))
	_, err = run("config", "--conf", bad)
	assert.Equal(t, types.ErrConfig, errors.Cause(err))

	badGuess := filepath.Join(dir, "guess.toml")
	require.Nil(t, ioutil.WriteFile(badGuess, []byte("[exec.sub.guess]\nduration = 0\n"), 0644))
	_, err = run("config", "--conf", badGuess)
	assert.Equal(t, types.ErrConfig, errors.Cause(err))

	_, err = run("config", "--conf", filepath.Join(dir, "none.toml"))
	assert.NotNil(t, err)
}
