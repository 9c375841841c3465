package resto

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"resto",
		fx.Provide(NewClient),
	)
}
