// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events 把执行成功的交易日志作为公开事件发布出去
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/33cn/guessnum/common"
	log "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/types"
	"github.com/google/uuid"
)

var elog = log.New("module", "events")

// 发布驱动
const (
	DriverLog   = "log"
	DriverKafka = "kafka"
	DriverNone  = "none"
)

// Event 公开事件
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Height    int64           `json:"height"`
	BlockTime int64           `json:"blockTime"`
	TxHash    string          `json:"txHash"`
	Execer    string          `json:"execer"`
	Ty        int32           `json:"ty"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent 由收据日志构造事件
func NewEvent(height, blocktime int64, tx *types.Transaction, item *types.ReceiptLog) *Event {
	return &Event{
		ID:        uuid.New(),
		Height:    height,
		BlockTime: blocktime,
		TxHash:    common.ToHex(tx.Hash()),
		Execer:    string(tx.Execer),
		Ty:        item.Ty,
		Name:      types.GetLogName(item.Ty),
		Data:      json.RawMessage(item.Log),
	}
}

// Publisher 事件发布
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
	Close() error
}

// NewPublisher 按配置创建
func NewPublisher(cfg *types.Event) (Publisher, error) {
	if cfg == nil {
		return &LogPublisher{}, nil
	}
	switch cfg.Driver {
	case DriverLog, "":
		return &LogPublisher{}, nil
	case DriverNone:
		return NonePublisher{}, nil
	case DriverKafka:
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic, time.Duration(cfg.WriteTimeout)*time.Millisecond)
	}
	return nil, fmt.Errorf("unknown event driver %q", cfg.Driver)
}

// LogPublisher 写到日志
type LogPublisher struct{}

// Publish 发布
func (p *LogPublisher) Publish(ctx context.Context, events ...*Event) error {
	for _, e := range events {
		elog.Info("event", "name", e.Name, "height", e.Height, "tx", e.TxHash, "data", string(e.Data))
	}
	return nil
}

// Close close
func (p *LogPublisher) Close() error { return nil }

// NonePublisher 丢弃事件
type NonePublisher struct{}

// Publish 发布
func (NonePublisher) Publish(ctx context.Context, events ...*Event) error { return nil }

// Close close
func (NonePublisher) Close() error { return nil }

// MockPublisher 保存发布过的事件, 测试用
type MockPublisher struct {
	mu     sync.Mutex
	events []*Event
	Err    error
}

// Publish 发布
func (m *MockPublisher) Publish(ctx context.Context, events ...*Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, events...)
	return nil
}

// Close close
func (m *MockPublisher) Close() error { return nil }

// Events 已发布的事件
func (m *MockPublisher) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// Named 指定名字的事件
func (m *MockPublisher) Named(name string) []*Event {
	var out []*Event
	for _, e := range m.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
