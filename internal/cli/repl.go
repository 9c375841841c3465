package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"olap_report/internal/export"
	"olap_report/internal/report"
	"olap_report/internal/resto"

	"go.uber.org/zap"
)

const replHelp = `Команды:
  report <тип> [период | с по]   загрузить отчет (guests, waiters, hourly, stores, writeoffs)
  filter <колонка>=<знач>|<знач>  оставить строки с указанными значениями
  sort <колонка> [desc]           сортировать по колонке
  values <колонка>                показать значения колонки
  clear                           сбросить фильтры и сортировку
  export <формат> [файл]          вывести или сохранить отчет (text, tsv, json, xlsx)
  summary                         краткая сводка по отчету (LLM)
  exit                            выход`

// replState is the loaded report and the view applied to it.
type replState struct {
	table      *report.Table
	filters    filterFlag
	sortColumn string
	sortDesc   bool
}

func (s *replState) current() *report.Table {
	if s.table == nil {
		return nil
	}
	return view(s.table, s.filters, s.sortColumn, s.sortDesc)
}

func (s *replState) resetView() {
	s.filters = filterFlag{}
	s.sortColumn = ""
	s.sortDesc = false
}

func (r *Runner) runREPL(ctx context.Context, opts *Options) error {
	reader := bufio.NewScanner(r.stdin)
	state := &replState{filters: filterFlag{}}
	fmt.Fprintln(r.stdout, "OLAP отчеты (help - список команд, exit - выход)")

	for {
		fmt.Fprint(r.stdout, "> ")
		if !reader.Scan() {
			return reader.Err()
		}

		line := strings.TrimSpace(reader.Text())
		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(command) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(r.stdout, replHelp)
		case "report":
			r.replReport(ctx, state, rest)
		case "filter":
			if err := state.filters.Set(rest); err != nil {
				fmt.Fprintln(r.stdout, err)
				continue
			}
			r.replShow(state)
		case "sort":
			column, desc := parseSortArgs(rest)
			state.sortColumn, state.sortDesc = column, desc
			r.replShow(state)
		case "values":
			r.replValues(state, rest)
		case "clear":
			state.resetView()
			fmt.Fprintln(r.stdout, "Фильтры и сортировка сброшены.")
		case "export":
			r.replExport(state, rest)
		case "summary":
			r.replSummary(ctx, state)
		default:
			fmt.Fprintf(r.stdout, "Неизвестная команда %q. Введите help.\n", command)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (r *Runner) replReport(ctx context.Context, state *replState, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		fmt.Fprintln(r.stdout, "Укажите тип отчета: "+reportTypeList())
		return
	}

	reportType, err := resto.ParseReportType(fields[0])
	if err != nil {
		fmt.Fprintln(r.stdout, friendlyError(err))
		return
	}

	var period periodRange
	switch len(fields) {
	case 1:
		period, err = resolvePeriod("", "", "", r.now())
	case 2:
		period, err = presetPeriod(fields[1], r.now())
	default:
		period, err = parsePeriod(fields[1], fields[2])
	}
	if err != nil {
		fmt.Fprintln(r.stdout, err)
		return
	}

	table, err := r.fetch(ctx, reportType, period)
	if err != nil {
		r.logger.Warn("report failed", zap.Error(err))
		fmt.Fprintln(r.stdout, friendlyError(err))
		return
	}

	state.table = table
	state.resetView()
	r.replShow(state)
}

func (r *Runner) replShow(state *replState) {
	table := state.current()
	if table == nil {
		fmt.Fprintln(r.stdout, "Сначала загрузите отчет: report <тип>")
		return
	}
	if err := export.WriteText(r.stdout, table); err != nil {
		fmt.Fprintln(r.stdout, err)
	}
	if len(state.filters) > 0 {
		fmt.Fprintf(r.stdout, "Фильтры: %s\n", state.filters)
	}
}

func (r *Runner) replValues(state *replState, column string) {
	table := state.current()
	if table == nil {
		fmt.Fprintln(r.stdout, "Сначала загрузите отчет: report <тип>")
		return
	}
	values := table.DistinctValues(column)
	if len(values) == 0 {
		fmt.Fprintln(r.stdout, "- (нет значений)")
		return
	}
	for _, value := range values {
		fmt.Fprintf(r.stdout, "- %s\n", value)
	}
}

func (r *Runner) replExport(state *replState, args string) {
	table := state.current()
	if table == nil {
		fmt.Fprintln(r.stdout, "Сначала загрузите отчет: report <тип>")
		return
	}

	formatArg, output, _ := strings.Cut(args, " ")
	format, err := export.ParseFormat(formatArg)
	if err != nil {
		fmt.Fprintln(r.stdout, err)
		return
	}
	if err := r.writeTable(table, format, strings.TrimSpace(output)); err != nil {
		fmt.Fprintln(r.stdout, err)
	}
}

func (r *Runner) replSummary(ctx context.Context, state *replState) {
	table := state.current()
	if table == nil {
		fmt.Fprintln(r.stdout, "Сначала загрузите отчет: report <тип>")
		return
	}
	if err := r.summarize(ctx, table); err != nil {
		r.logger.Warn("summary failed", zap.Error(err))
		fmt.Fprintln(r.stdout, friendlyError(err))
	}
}

// parseSortArgs splits "column [desc|asc]"; column names may contain spaces.
func parseSortArgs(args string) (string, bool) {
	args = strings.TrimSpace(args)
	lower := strings.ToLower(args)
	switch {
	case strings.HasSuffix(lower, " desc"):
		return strings.TrimSpace(args[:len(args)-len(" desc")]), true
	case strings.HasSuffix(lower, " asc"):
		return strings.TrimSpace(args[:len(args)-len(" asc")]), false
	default:
		return args, false
	}
}
