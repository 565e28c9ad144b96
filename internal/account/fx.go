package account

import (
	"go.uber.org/fx"

	"github.com/revops-labs/pulse/internal/account/repository"
	"github.com/revops-labs/pulse/internal/account/service"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
