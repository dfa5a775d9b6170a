package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/sankey/pkg/observability"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnFlattenComplete(ctx, 18, 17, time.Millisecond, nil)
	m.OnLayoutComplete(ctx, "sankey", time.Millisecond, errors.New("boom"))
	m.OnLabelsFitted(ctx, 18, 3)
	m.OnRenderComplete(ctx, []string{"svg", "json"}, time.Millisecond, nil)
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 2048)
	m.OnCacheHit(ctx, "artifact")
	m.OnRequest(ctx, "POST", "/render", 200, 5*time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"layout errors", testutil.ToFloat64(m.stageErrors.WithLabelValues("layout")), 1},
		{"flatten errors", testutil.ToFloat64(m.stageErrors.WithLabelValues("flatten")), 0},
		{"truncated labels", testutil.ToFloat64(m.labels.WithLabelValues("truncated")), 3},
		{"fitted labels", testutil.ToFloat64(m.labels.WithLabelValues("fit")), 15},
		{"svg renders", testutil.ToFloat64(m.renders.WithLabelValues("svg")), 1},
		{"cache hits", testutil.ToFloat64(m.cacheEvents.WithLabelValues("hit", "artifact")), 1},
		{"cache bytes", testutil.ToFloat64(m.cacheBytes), 2048},
		{"requests", testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/render", "200")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg, "sankey_graph_nodes"); err != nil || n != 1 {
		t.Errorf("sankey_graph_nodes series = %d, %v", n, err)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Install()
	if observability.Pipeline() != m || observability.Cache() != m || observability.HTTP() != m {
		t.Error("Install did not register all hooks")
	}
}
