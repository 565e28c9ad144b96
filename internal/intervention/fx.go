package intervention

import (
	"go.uber.org/fx"

	"github.com/revops-labs/pulse/internal/intervention/service"
)

var Module = fx.Module("intervention.service",
	fx.Provide(service.NewService),
)
