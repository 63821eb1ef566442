package plan

import (
	"github.com/smallbiznis/seatwise/internal/plan/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("plan",
	fx.Provide(repository.Provide),
)
