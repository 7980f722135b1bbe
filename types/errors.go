// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"sync"

	pkgerr "github.com/pkg/errors"
)

// 系统错误
var (
	ErrNotFound          = errors.New("ErrNotFound")
	ErrAmount            = errors.New("ErrAmount")
	ErrNoBalance         = errors.New("ErrNoBalance")
	ErrSendSameToRecv    = errors.New("ErrSendSameToRecv")
	ErrSign              = errors.New("ErrSign")
	ErrInvalidAddress    = errors.New("ErrInvalidAddress")
	ErrInvalidParam      = errors.New("ErrInvalidParam")
	ErrActionNotSupport  = errors.New("ErrActionNotSupport")
	ErrUnRegistedDriver  = errors.New("ErrUnRegistedDriver")
	ErrNotAllowMemSetKey = errors.New("ErrNotAllowMemSetKey")
	ErrExecNameNotAllow  = errors.New("ErrExecNameNotAllow")
	ErrTxMsgSizeTooBig   = errors.New("ErrTxMsgSizeTooBig")
	ErrEmpty             = errors.New("ErrEmpty")
	ErrDecode            = errors.New("ErrDecode")
	ErrConfig            = errors.New("ErrConfig")
	ErrTxDup             = errors.New("ErrTxDup")
)

// ErrClass 错误的分类
type ErrClass int32

// 错误分类
const (
	ErrClassUnknown ErrClass = iota
	// ErrClassPrecondition 前置条件不满足, 调用方的问题
	ErrClassPrecondition
	// ErrClassConsistency 公开状态和内部状态不一致或者秘密被篡改
	ErrClassConsistency
	// ErrClassBalanceInvariant 结算后资金池余额不为零
	ErrClassBalanceInvariant
)

var errClassNames = map[ErrClass]string{
	ErrClassUnknown:          "Unknown",
	ErrClassPrecondition:     "PreconditionViolation",
	ErrClassConsistency:      "ConsistencyViolation",
	ErrClassBalanceInvariant: "BalanceInvariantViolation",
}

func (c ErrClass) String() string {
	if name, ok := errClassNames[c]; ok {
		return name
	}
	return "Unknown"
}

var (
	errClasses   = make(map[error]ErrClass)
	errClassLock sync.RWMutex
)

func init() {
	RegisterErrClass(ErrClassPrecondition, ErrAmount, ErrNoBalance, ErrSendSameToRecv, ErrSign,
		ErrInvalidAddress, ErrInvalidParam, ErrActionNotSupport, ErrUnRegistedDriver, ErrTxMsgSizeTooBig,
		ErrDecode, ErrTxDup)
}

// RegisterErrClass 给哨兵错误分类
func RegisterErrClass(class ErrClass, errs ...error) {
	errClassLock.Lock()
	defer errClassLock.Unlock()
	for _, err := range errs {
		errClasses[err] = class
	}
}

// ClassOf 获取错误的分类, 支持 errors.Wrap 包装过的错误
func ClassOf(err error) ErrClass {
	if err == nil {
		return ErrClassUnknown
	}
	errClassLock.RLock()
	defer errClassLock.RUnlock()
	if class, ok := errClasses[pkgerr.Cause(err)]; ok {
		return class
	}
	for e, class := range errClasses {
		if errors.Is(err, e) {
			return class
		}
	}
	return ErrClassUnknown
}
