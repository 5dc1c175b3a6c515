package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/waselhq/wasel/internal/observability/metrics"
	"go.uber.org/fx"
)

// Module wires the engine metrics onto the default prometheus registry.
var Module = fx.Module("observability",
	fx.Provide(func() *metrics.Metrics {
		return metrics.New(prometheus.DefaultRegisterer)
	}),
)
