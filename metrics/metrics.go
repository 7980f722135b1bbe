// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 按配置周期性输出 go-metrics 的统计数据
package metrics

import (
	"context"
	"io"
	"strings"
	"time"

	guesslog "github.com/33cn/guessnum/common/log"
	"github.com/33cn/guessnum/types"
	go_metrics "github.com/rcrowley/go-metrics"
)

var log = guesslog.New("module", "guessnum metrics")

// 输出方式
const (
	EmitModeLog  = "log"
	EmitModeNone = "none"
)

//StartMetrics 根据配置文件相关参数启动, ctx 结束时停止输出
func StartMetrics(ctx context.Context, cfg *types.Metrics, r go_metrics.Registry) {
	if cfg == nil || !cfg.EnableMetrics {
		log.Info("Metrics data is not enabled to emit")
		return
	}
	if r == nil {
		r = go_metrics.DefaultRegistry
	}
	switch cfg.DataEmitMode {
	case EmitModeLog:
		freq := time.Duration(cfg.Duration)
		if freq <= 0 {
			freq = 10 * time.Second
		}
		log.Info("StartMetrics with log", "duration", freq)
		go emit(ctx, r, freq)
	case EmitModeNone:
	default:
		log.Error("startMetrics", "The dataEmitMode set is not supported now ", cfg.DataEmitMode)
	}
}

func emit(ctx context.Context, r go_metrics.Registry, freq time.Duration) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go_metrics.WriteOnce(r, logWriter{})
		}
	}
}

// logWriter go-metrics 每输出一行记一条日志
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// WriteOnce 把当前的统计写到 w
func WriteOnce(r go_metrics.Registry, w io.Writer) {
	if r == nil {
		r = go_metrics.DefaultRegistry
	}
	go_metrics.WriteOnce(r, w)
}
