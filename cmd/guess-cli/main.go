// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	_ "github.com/33cn/guessnum/plugin/dapp/guess"
	"github.com/33cn/guessnum/util/cli"
)

func main() {
	cli.Run()
}
