package logging

import (
	"context"

	"olap_report/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Module provides the rotating log file. The logger decorator sits outside the
// named module so that every module receives the tee'd logger.
func Module() fx.Option {
	return fx.Options(
		fx.Module(
			"logging",
			fx.Provide(func(cfg config.Config) *lumberjack.Logger {
				return OpenLogFile(cfg.LogFile)
			}),
			fx.Invoke(func(lc fx.Lifecycle, file *lumberjack.Logger, logger *zap.Logger) {
				if file == nil {
					return
				}
				lc.Append(fx.Hook{
					OnStop: func(_ context.Context) error {
						_ = logger.Sync()
						return file.Close()
					},
				})
			}),
		),
		fx.Decorate(func(base *zap.Logger, cfg config.Config, file *lumberjack.Logger) *zap.Logger {
			if file == nil {
				return base
			}
			return AttachFileLogger(base, file, cfg.Debug)
		}),
	)
}
