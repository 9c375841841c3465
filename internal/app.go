package internal

import (
	"context"

	"olap_report/internal/cli"
	"olap_report/internal/config"
	"olap_report/internal/llm"
	"olap_report/internal/logging"
	"olap_report/internal/reporting"
	"olap_report/internal/resto"
	"olap_report/internal/settings"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		resto.Module(),
		reporting.Module(),
		settings.Module(),
		llm.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
