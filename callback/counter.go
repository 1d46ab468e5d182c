// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package callback

import (
	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/link/conid"
)

// Counter records per-event counts as Prometheus counters instead of bare
// atomics, so a caller's own metrics endpoint can scrape them directly.
// It implements prometheus.Collector and should be registered once with
// the caller's registry.
type Counter[SendT, RecvT any] struct {
	vec *prometheus.CounterVec
}

// NewCounter returns a Counter whose metric is named name with help text
// help, labeled by connection name, role, and event kind.
func NewCounter[SendT, RecvT any](name, help string) *Counter[SendT, RecvT] {
	return &Counter[SendT, RecvT]{
		vec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: help,
		}, []string{"con_name", "con_role", "event"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Counter[SendT, RecvT]) Describe(ch chan<- *prometheus.Desc) { c.vec.Describe(ch) }

// Collect implements prometheus.Collector.
func (c *Counter[SendT, RecvT]) Collect(ch chan<- prometheus.Metric) { c.vec.Collect(ch) }

func (c *Counter[SendT, RecvT]) inc(id conid.ID, event string) {
	c.vec.WithLabelValues(id.Name, id.Role.String(), event).Inc()
}

func (c *Counter[SendT, RecvT]) OnRecv(id conid.ID, _ *RecvT)          { c.inc(id, "recv") }
func (c *Counter[SendT, RecvT]) OnSend(id conid.ID, _ *SendT)          { c.inc(id, "send") }
func (c *Counter[SendT, RecvT]) OnSent(id conid.ID, _ *SendT)          { c.inc(id, "sent") }
func (c *Counter[SendT, RecvT]) OnFail(id conid.ID, _ *SendT, _ error) { c.inc(id, "fail") }

var _ RecvSend[struct{}, struct{}] = (*Counter[struct{}, struct{}])(nil)
var _ prometheus.Collector = (*Counter[struct{}, struct{}])(nil)
