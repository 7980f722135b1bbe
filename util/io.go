// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//CheckFileIsExist : check whether the file exists or not
func CheckFileIsExist(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

//WriteStringToFile : write content to file, 已存在的文件会被覆盖
func WriteStringToFile(file, content string) (writeLen int, err error) {
	if dir := filepath.Dir(file); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return 0, errors.Wrapf(err, "mkdir %s", dir)
		}
	}
	f, err := os.Create(file)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", file)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	writeLen, err = w.WriteString(content)
	if err != nil {
		return writeLen, err
	}
	return writeLen, w.Flush()
}
