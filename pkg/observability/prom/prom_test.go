package prom

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/boxarrow/pkg/observability"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			key := f.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestMetricsRecordEvents(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OnResolveStart(ctx, 10)
	m.OnStage(ctx, observability.StageRoute, time.Millisecond, nil)
	m.OnOptimizeRound(ctx, 0, 12.5, true)
	m.OnOptimizeRound(ctx, 1, 12.5, false)
	m.OnRoutingFallback(ctx, "x")
	m.OnResolveComplete(ctx, time.Second, errors.New("bad"))
	m.OnCacheMiss(ctx, "output")
	m.OnCacheSet(ctx, "output", 128)
	m.OnCacheHit(ctx, "output")
	m.OnResponse(ctx, "POST", "/v1/resolve", 200, time.Millisecond)

	got := gather(t, reg)
	want := map[string]float64{
		"boxarrow_resolves_total{outcome=error}":                                 1,
		"boxarrow_resolve_nodes":                                                 1,
		"boxarrow_stage_duration_seconds{outcome=ok,stage=route}":                1,
		"boxarrow_optimize_rounds_total{accepted=true}":                          1,
		"boxarrow_optimize_rounds_total{accepted=false}":                         1,
		"boxarrow_optimize_last_score":                                           12.5,
		"boxarrow_routing_fallbacks_total":                                       1,
		"boxarrow_cache_operations_total{key_type=output,result=hit}":            1,
		"boxarrow_cache_operations_total{key_type=output,result=miss}":           1,
		"boxarrow_cache_written_bytes_total{key_type=output}":                    128,
		"boxarrow_http_requests_total{method=POST,route=/v1/resolve,status=200}": 1,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestInstall(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	m := New(prometheus.NewRegistry())
	m.Install()
	if observability.Pipeline() != m || observability.Cache() != m || observability.HTTP() != m {
		t.Error("Install did not register all hooks")
	}
}
