// Package observability wires tracing and metrics into the fx graph.
package observability

import (
	"go.uber.org/fx"

	"github.com/revops-labs/pulse/internal/observability/metrics"
	"github.com/revops-labs/pulse/internal/observability/tracing"
)

var Module = fx.Module("observability",
	fx.Provide(metrics.NewHTTPMetrics),
	fx.Invoke(tracing.NewProvider),
)
