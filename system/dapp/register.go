// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"sort"
	"sync"

	log "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/types"
)

var elog = log.New("module", "execs")

// DriverCreate 创建执行器, 有私有状态的执行器每次返回同一个实例
type DriverCreate func() Driver

type driverWithHeight struct {
	create DriverCreate
	height int64
}

// Registry 执行器注册表, 每个宿主一个
type Registry struct {
	mu          sync.RWMutex
	drivers     map[string]*driverWithHeight
	addressName map[string]string
}

// NewRegistry new
func NewRegistry() *Registry {
	return &Registry{
		drivers:     make(map[string]*driverWithHeight),
		addressName: make(map[string]string),
	}
}

// Register 注册执行器, height 之前的交易不会路由到该执行器
func (r *Registry) Register(name string, create DriverCreate, height int64) {
	if create == nil {
		panic("Execute: Register driver is nil")
	}
	if !IsExecName(name) {
		panic("Execute: Register bad driver name " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.drivers[name]; dup {
		panic("Execute: Register called twice for driver " + name)
	}
	r.drivers[name] = &driverWithHeight{
		create: create,
		height: height,
	}
	r.addressName[ExecAddress(name)] = name
}

// LoadDriver 加载执行器, height 为 -1 时忽略启用高度
func (r *Registry) LoadDriver(name string, height int64) (driver Driver, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.drivers[name]
	if !ok {
		elog.Debug("LoadDriver", "driver", name)
		return nil, types.ErrUnRegistedDriver
	}
	if height >= c.height || height == -1 {
		return c.create(), nil
	}
	return nil, types.ErrUnRegistedDriver
}

// IsDriverAddress 是否是某个执行器的地址
func (r *Registry) IsDriverAddress(addr string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.addressName[addr]
	return ok
}

// Names 已注册的执行器
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
