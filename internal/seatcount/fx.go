package seatcount

import "go.uber.org/fx"

var Module = fx.Module("seatcount",
	fx.Provide(NewSigner),
)
