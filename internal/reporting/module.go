package reporting

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"reporting",
		fx.Provide(NewService),
	)
}
