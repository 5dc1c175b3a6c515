package points

import (
	"github.com/waselhq/wasel/internal/points/service"
	"go.uber.org/fx"
)

var Module = fx.Module("points.service",
	fx.Provide(service.New),
)
