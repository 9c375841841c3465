package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"olap_report/internal/config"
	"olap_report/internal/export"
	"olap_report/internal/llm"
	"olap_report/internal/report"
	"olap_report/internal/reporting"
	"olap_report/internal/resto"
	"olap_report/internal/settings"

	"go.uber.org/zap"
)

type Runner struct {
	cfg       config.Config
	logger    *zap.Logger
	service   *reporting.Service
	store     *settings.Store
	llmClient *llm.Client

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner(cfg config.Config, logger *zap.Logger, service *reporting.Service, store *settings.Store, llmClient *llm.Client) *Runner {
	return &Runner{
		cfg:       cfg,
		logger:    logger.Named("cli"),
		service:   service,
		store:     store,
		llmClient: llmClient,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		now:       time.Now,
	}
}

func (r *Runner) Execute() error {
	return r.run(os.Args[1:])
}

func (r *Runner) run(args []string) error {
	opts, err := parseOptions(args, r.cfg, r.stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := r.login(ctx, &opts); err != nil {
		return r.fail("login failed", err)
	}

	if opts.Interactive {
		return r.runREPL(ctx, &opts)
	}
	return r.runOnce(ctx, &opts)
}

// login fills missing server and login from the saved settings and opens a session.
func (r *Runner) login(ctx context.Context, opts *Options) error {
	if opts.Server == "" || opts.Login == "" {
		saved, err := r.store.Load()
		switch {
		case err == nil:
			if opts.Server == "" {
				opts.Server = saved.Server
			}
			if opts.Login == "" {
				opts.Login = saved.Login
			}
		case errors.Is(err, settings.ErrNotFound):
			r.logger.Debug("no saved settings", zap.String("path", r.store.Path()))
		default:
			r.logger.Warn("saved settings are unreadable", zap.Error(err))
		}
	}

	creds := reporting.Credentials{Server: opts.Server, Login: opts.Login, Password: opts.Password}
	if err := r.service.Login(ctx, creds); err != nil {
		return err
	}

	if missing := r.service.Dictionaries().Missing(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, kind := range missing {
			names = append(names, string(kind))
		}
		fmt.Fprintf(r.stderr, "Справочники не загружены: %s. Вместо названий будут показаны идентификаторы.\n", strings.Join(names, ", "))
	}

	if opts.Save {
		if err := r.store.Save(settings.Saved{Server: opts.Server, Login: opts.Login}); err != nil {
			r.logger.Warn("settings not saved", zap.Error(err))
			fmt.Fprintf(r.stderr, "Не удалось сохранить настройки: %v\n", err)
		}
	}
	return nil
}

func (r *Runner) runOnce(ctx context.Context, opts *Options) error {
	reportType, err := resto.ParseReportType(opts.Report)
	if err != nil {
		return r.fail("bad report type", err)
	}
	period, err := resolvePeriod(opts.From, opts.To, opts.Period, r.now())
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	table, err := r.fetch(ctx, reportType, period)
	if err != nil {
		return r.fail("report failed", err)
	}
	table = view(table, opts.Filters, opts.SortColumn, opts.SortDesc)

	if opts.Values != "" {
		for _, value := range table.DistinctValues(opts.Values) {
			fmt.Fprintln(r.stdout, value)
		}
		return nil
	}

	if err := r.writeTable(table, format, opts.Output); err != nil {
		return err
	}

	if opts.Summarize {
		if err := r.summarize(ctx, table); err != nil {
			return r.fail("summary failed", err)
		}
	}
	return nil
}

func (r *Runner) fetch(ctx context.Context, reportType resto.ReportType, period periodRange) (*report.Table, error) {
	r.logger.Info("report requested",
		zap.String("report", string(reportType)),
		zap.String("from", period.From.Format(dateLayout)),
		zap.String("to", period.To.Format(dateLayout)),
	)

	started := time.Now()
	table, err := r.service.FetchReport(ctx, reporting.Request{Type: reportType, From: period.From, To: period.To})
	if err != nil {
		return nil, err
	}

	r.logger.Info("report ready",
		zap.String("report", string(reportType)),
		zap.Int("rows", len(table.Rows)),
		zap.Int64("ms", time.Since(started).Milliseconds()),
		zap.String("error", table.Meta.Error),
	)
	return table, nil
}

// view applies filters first, then sorting, to a freshly fetched table.
func view(table *report.Table, filters map[string][]string, sortColumn string, desc bool) *report.Table {
	if len(filters) > 0 {
		table = table.Filter(filters)
	}
	if sortColumn != "" {
		table = table.Sort(sortColumn, desc)
	}
	return table
}

func (r *Runner) writeTable(table *report.Table, format export.Format, output string) error {
	if format == export.FormatXLSX && output == "" {
		output = defaultFileName(table, format)
	}
	if output == "" {
		return export.Write(r.stdout, table, format)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := export.Write(file, table, format); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	fmt.Fprintf(r.stdout, "Отчет сохранен: %s\n", output)
	return nil
}

func (r *Runner) summarize(ctx context.Context, table *report.Table) error {
	tsv, err := export.TSV(table)
	if err != nil {
		return err
	}

	period := ""
	if table.Meta.DateFrom != "" {
		period = table.Meta.DateFrom + " - " + table.Meta.DateTo
	}
	answer, err := r.llmClient.Summarize(ctx, table.Name, period, tsv)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.stdout, "\nСводка:")
	fmt.Fprintln(r.stdout, answer)
	return nil
}

func (r *Runner) fail(msg string, err error) error {
	r.logger.Error(msg, zap.Error(err))
	return &userError{message: friendlyError(err), err: err}
}

func defaultFileName(table *report.Table, format export.Format) string {
	name := string(table.Type)
	if table.Meta.DateFrom != "" {
		name += "_" + table.Meta.DateFrom + "_" + table.Meta.DateTo
	}
	return strings.ReplaceAll(name, "/", "-") + "." + string(format)
}
