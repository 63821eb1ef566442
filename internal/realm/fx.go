package realm

import (
	"github.com/smallbiznis/seatwise/internal/realm/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("realm",
	fx.Provide(repository.Provide),
)
