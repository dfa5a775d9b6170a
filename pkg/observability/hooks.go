// Package observability lets a binary attach metrics to the render pipeline,
// the artifact cache and the HTTP server without those packages importing a
// metrics backend.
//
// Every hook set starts as a no-op. A binary installs real hooks once at
// startup, before any render pass runs:
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	m.Install()
//
// Instrumented code looks the hooks up at the call site:
//
//	observability.Pipeline().OnLayoutStart(ctx, "sankey", len(g.Nodes))
//
// [prom] is the Prometheus backend.
//
// [prom]: github.com/matzehuels/sankey/pkg/observability/prom
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives one event per pipeline stage.
type PipelineHooks interface {
	OnFlattenComplete(ctx context.Context, nodeCount, linkCount int, duration time.Duration, err error)
	OnLayoutStart(ctx context.Context, vizType string, nodeCount int)
	OnLayoutComplete(ctx context.Context, vizType string, duration time.Duration, err error)
	// OnLabelsFitted reports how many of the fitted labels were shortened.
	OnLabelsFitted(ctx context.Context, labelCount, truncatedCount int)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache lookups and writes. keyType names the
// kind of entry, e.g. "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives served requests. route is the matched pattern, not the
// raw path, so label cardinality stays bounded.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFlattenComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnLabelsFitted(context.Context, int, int)                          {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards request events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// hookSet is swapped as a whole so readers never see a half-installed backend.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[hookSet]

func init() { Reset() }

func load() *hookSet { return current.Load() }

// update copies the active set, applies fn and publishes the copy.
func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks installs cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks installs HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return load().http }

// Reset puts every hook set back to its no-op. Tests that install hooks
// call it on cleanup.
func Reset() {
	current.Store(&hookSet{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
