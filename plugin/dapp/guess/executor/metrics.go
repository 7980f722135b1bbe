// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	metrics "github.com/rcrowley/go-metrics"
)

type guessMetrics struct {
	submissions metrics.Counter
	guesses     metrics.Counter
	rejected    metrics.Counter
	concluded   metrics.Counter
	pool        metrics.Gauge
}

func newGuessMetrics(r metrics.Registry) *guessMetrics {
	if r == nil {
		r = metrics.DefaultRegistry
	}
	return &guessMetrics{
		submissions: metrics.GetOrRegisterCounter("guess/submissions", r),
		guesses:     metrics.GetOrRegisterCounter("guess/guesses", r),
		rejected:    metrics.GetOrRegisterCounter("guess/rejected", r),
		concluded:   metrics.GetOrRegisterCounter("guess/concluded", r),
		pool:        metrics.GetOrRegisterGauge("guess/pool", r),
	}
}
