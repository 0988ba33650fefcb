// Copyright 2024 The YUFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yufsfuse

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the per-operation counters and latency histograms exposed
// by cmd/yufsd at /metrics, grounded on gcsfuse's Prometheus wiring for
// its own fs-op instrumentation.
type Metrics struct {
	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec
}

// NewMetrics constructs and registers a Metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yufs",
			Name:      "fs_ops_total",
			Help:      "Count of filesystem operations by name and result.",
		}, []string{"op", "result"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yufs",
			Name:      "fs_op_duration_seconds",
			Help:      "Latency of filesystem operations by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.OpsTotal, m.OpDuration)
	return m
}

func (m *Metrics) observe(op string, err error, seconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OpsTotal.WithLabelValues(op, result).Inc()
	m.OpDuration.WithLabelValues(op).Observe(seconds)
}
