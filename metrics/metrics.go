// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics wires the collectors this module produces —
// callback.Counter and the gauge funcs in this package — into a
// dedicated prometheus.Registry and exposes it over HTTP, so an embedder
// does not have to touch the default global registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a prometheus.Registry scoped to this module's metrics.
type Registry struct {
	reg *prometheus.Registry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{reg: prometheus.NewRegistry()}
}

// Register adds one or more collectors, such as a callback.Counter or a
// GaugeFunc built with NewPoolGauge/NewReactorGauge. It panics if the same
// collector (or a metric with a colliding descriptor) is registered twice,
// matching prometheus.Registry.MustRegister's contract.
func (r *Registry) Register(collectors ...prometheus.Collector) {
	r.reg.MustRegister(collectors...)
}

// Handler returns an http.Handler serving this registry's metrics in the
// Prometheus text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// NewPoolGauge returns a GaugeFunc named name reporting sizeFn()'s current
// value — typically a pool's Len — each time the registry is scraped.
// Grounded on the RoundRobinPool-backed pools (pool.CltsPool,
// pool.CltRecversPool, pool.CltSendersPool), each of which exposes Len()
// int without needing a shared interface.
func NewPoolGauge(name, help string, sizeFn func() int) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, func() float64 { return float64(sizeFn()) })
}

// NewReactorGauge returns a GaugeFunc named name reporting the number of
// items currently registered with a reactor.PollHandler, via its Len.
func NewReactorGauge(name, help string, lenFn func() int) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, func() float64 { return float64(lenFn()) })
}
