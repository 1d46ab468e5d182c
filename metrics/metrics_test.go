// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"code.hybscloud.com/link/metrics"
)

func TestPoolGaugeReportsCurrentSize(t *testing.T) {
	size := 3
	r := metrics.New()
	r.Register(metrics.NewPoolGauge("link_pool_size", "current pool occupancy", func() int { return size }))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.Contains(string(body), "link_pool_size 3") {
		t.Fatalf("body missing link_pool_size 3:\n%s", body)
	}
}

func TestReactorGaugeReportsCurrentLen(t *testing.T) {
	r := metrics.New()
	r.Register(metrics.NewReactorGauge("link_reactor_items", "registered reactor items", func() int { return 7 }))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	body, err := io.ReadAll(w.Result().Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.Contains(string(body), "link_reactor_items 7") {
		t.Fatalf("body missing link_reactor_items 7:\n%s", body)
	}
}

func TestRegisterPanicsOnDuplicateMetricName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic registering a duplicate metric name")
		}
	}()
	r := metrics.New()
	r.Register(metrics.NewPoolGauge("link_dup", "first", func() int { return 0 }))
	r.Register(metrics.NewPoolGauge("link_dup", "second", func() int { return 0 }))
}
