package activity

import (
	"go.uber.org/fx"

	"github.com/revops-labs/pulse/internal/activity/service"
)

var Module = fx.Module("activity.service",
	fx.Provide(service.NewService),
)
