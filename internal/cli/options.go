package cli

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"olap_report/internal/config"
)

type Options struct {
	Server   string
	Login    string
	Password string
	Save     bool

	Report string
	From   string
	To     string
	Period string

	Filters    filterFlag
	SortColumn string
	SortDesc   bool
	Values     string

	Format    string
	Output    string
	Summarize bool

	Interactive bool
}

func parseOptions(args []string, cfg config.Config, stderr io.Writer) (Options, error) {
	opts := Options{
		Server:   cfg.ServerURL,
		Login:    cfg.Login,
		Password: cfg.Password,
		Filters:  filterFlag{},
	}

	fs := flag.NewFlagSet("olap-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags]\n", fs.Name())
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.Server, "server", opts.Server, "Server URL (SERVER_URL)")
	fs.StringVar(&opts.Login, "login", opts.Login, "Login (LOGIN)")
	fs.StringVar(&opts.Password, "password", opts.Password, "Password or sha1:<hash> (PASSWORD)")
	fs.BoolVar(&opts.Save, "save", false, "Remember server and login after a successful login")
	fs.StringVar(&opts.Report, "report", "guests", "Report: guests, waiters, hourly, stores, writeoffs")
	fs.StringVar(&opts.From, "from", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&opts.To, "to", "", "End date (YYYY-MM-DD), inclusive")
	fs.StringVar(&opts.Period, "period", "", "Period preset: "+strings.Join(presetNames, ", "))
	fs.Var(&opts.Filters, "filter", "Keep rows where column equals one of the values: 'column=v1|v2' (repeatable)")
	fs.StringVar(&opts.SortColumn, "sort", "", "Sort rows by column")
	fs.BoolVar(&opts.SortDesc, "desc", false, "Sort descending")
	fs.StringVar(&opts.Values, "values", "", "Print the distinct values of a column and exit")
	fs.StringVar(&opts.Format, "format", "text", "Output format: text, tsv, json, xlsx")
	fs.StringVar(&opts.Output, "o", "", "Write the report to a file")
	fs.BoolVar(&opts.Summarize, "summarize", false, "Ask the LLM for a short summary (LLM_MODEL, LLM_API_KEY)")
	fs.BoolVar(&opts.Interactive, "i", false, "Interactive mode")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// filterFlag collects repeated -filter 'column=v1|v2' values.
type filterFlag map[string][]string

func (f filterFlag) String() string {
	columns := make([]string, 0, len(f))
	for column := range f {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, column+"="+strings.Join(f[column], "|"))
	}
	return strings.Join(parts, "; ")
}

func (f filterFlag) Set(value string) error {
	column, values, ok := strings.Cut(value, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return fmt.Errorf("filter must look like 'column=value|value', got %q", value)
	}
	for _, v := range strings.Split(values, "|") {
		if v = strings.TrimSpace(v); v != "" {
			f[column] = append(f[column], v)
		}
	}
	return nil
}
