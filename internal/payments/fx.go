package payments

import (
	"github.com/smallbiznis/seatwise/internal/payments/stripegw"
	"go.uber.org/fx"
)

var Module = fx.Module("payments",
	fx.Provide(stripegw.New),
)
