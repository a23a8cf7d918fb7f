// Command welldata loads field workbooks and exports one sheet per well.
//
//	welldata inspect -in field.xlsx
//	welldata export -in field.xlsx -out wells.xlsx -from 2020 -wells A7,B2
//	welldata export -in field.xlsx -out wells.csv -all
//	welldata serve -config welldata.yaml
package main

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

	"welldata/internal/app"
	"welldata/internal/config"
	"welldata/internal/infrastructure"
	"welldata/internal/services"
	"welldata/internal/validation"
	"welldata/pkg/contracts/events"
)

const usage = `usage: welldata <command> [flags]

commands:
  inspect   load a workbook and list its years and wells
  export    load a workbook and export the selected wells
  serve     run the HTTP and websocket server
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "inspect":
		err = runInspect(ctx, args[1:], stdout, stderr)
	case "export":
		err = runExport(ctx, args[1:], stdout, stderr)
	case "serve":
		err = runServe(ctx, args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	var usageErr usageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &usageErr):
		fmt.Fprintln(stderr, usageErr)
		return 2
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

// commonFlags are shared by the batch commands
type commonFlags struct {
	configPath string
	verbose    bool
	quiet      bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&c.verbose, "v", false, "log at debug level")
	fs.BoolVar(&c.quiet, "q", false, "do not print progress")
}

// batch is what a batch command needs to drive a session
type batch struct {
	cfg       *config.Config
	session   *services.Session
	validator *validation.FileValidator
}

// setup loads the config and builds a session whose logs go to stderr.
// Batch runs only log warnings unless -v is set.
func (c *commonFlags) setup(stderr io.Writer) (*batch, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	logging := cfg.Logging
	logging.Output = "console"
	logging.Level = "warn"
	if c.verbose {
		logging.Level = "debug"
	}
	logger, err := infrastructure.NewLogger(logging, stderr)
	if err != nil {
		return nil, err
	}
	return &batch{
		cfg:       cfg,
		session:   app.NewSession(cfg, nil, logger),
		validator: validation.NewFileValidator(logger),
	}, nil
}

func runInspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "workbook to load (.xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return usageError("inspect: -in is required")
	}

	b, err := common.setup(stderr)
	if err != nil {
		return err
	}
	if err := b.validator.ValidateWorkbook(*in); err != nil {
		return err
	}
	if err := b.load(ctx, *in, progressWriter(stderr, common.quiet)); err != nil {
		return err
	}

	st := b.session.Snapshot()
	fmt.Fprintf(stdout, "records: %d\n", st.Records)
	fmt.Fprintf(stdout, "years:   %s\n", joinInts(st.Years))
	fmt.Fprintf(stdout, "wells:   %s\n", strings.Join(st.Wells, ", "))
	return nil
}

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "workbook to load (.xlsx)")
	out := fs.String("out", "", "destination (.xlsx or .csv)")
	from := fs.Int("from", 0, "first year to export (defaults to the earliest year)")
	wells := fs.String("wells", "", "comma separated wells to export")
	all := fs.Bool("all", false, "export every well")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch {
	case *in == "" || *out == "":
		return usageError("export: -in and -out are required")
	case *all == (*wells != ""):
		return usageError("export: pass exactly one of -wells and -all")
	}

	b, err := common.setup(stderr)
	if err != nil {
		return err
	}
	if err := b.validator.ValidateWorkbook(*in); err != nil {
		return err
	}
	if err := b.validator.ValidateOutputPath(*out); err != nil {
		return err
	}
	progress := progressWriter(stderr, common.quiet)
	if err := b.load(ctx, *in, progress); err != nil {
		return err
	}

	fromSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "from" {
			fromSet = true
		}
	})
	st := b.session.Snapshot()
	year := *from
	if !fromSet && st.StartYear != nil {
		year = *st.StartYear
	}
	selected := st.Wells
	if !*all {
		selected = splitList(*wells)
	}
	if err := b.session.SetSelection(year, selected); err != nil {
		return err
	}

	if _, err := b.session.Export(ctx, *out); err != nil {
		return err
	}
	if err := b.wait(ctx, progress); err != nil {
		return err
	}
	fmt.Fprintln(stdout, b.session.Snapshot().Status)
	return nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	port := fs.Int("port", 0, "override the configured port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	a, err := app.NewApplication(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()
	return a.Run(ctx)
}

// load ingests path and waits for the outcome
func (b *batch) load(ctx context.Context, path string, progress io.Writer) error {
	if _, err := b.session.Load(ctx, path); err != nil {
		return err
	}
	return b.wait(ctx, progress)
}

// wait drives the running job to its end and turns an Error message into
// an error.
func (b *batch) wait(ctx context.Context, progress io.Writer) error {
	msg, err := drive(ctx, b.session, b.cfg.Jobs.PollInterval, progress)
	if err != nil {
		return err
	}
	if msg.Type == events.TypeError {
		return errors.New(msg.Text)
	}
	return nil
}

// drive polls the session until the running job ends, printing every
// message it applies, and returns the terminal message.
func drive(ctx context.Context, session *services.Session, interval time.Duration, out io.Writer) (events.Message, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, m := range session.Tick() {
			printMessage(out, m)
			if m.Terminal() {
				return m, nil
			}
		}
		select {
		case <-ctx.Done():
			return events.Message{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func printMessage(w io.Writer, m events.Message) {
	switch m.Type {
	case events.TypeProgress:
		fmt.Fprintf(w, "[%3.0f%% | %3.0f%%] %s\n", m.Global*100, m.Local*100, m.Text)
	case events.TypeError:
		// Returned to run, which prints it.
	default:
		fmt.Fprintf(w, "[100%% | 100%%] %s\n", m.Type)
	}
}

func progressWriter(stderr io.Writer, quiet bool) io.Writer {
	if quiet {
		return io.Discard
	}
	return stderr
}

// splitList splits a comma separated list. Entries are kept verbatim since
// well names may carry spaces; empty entries are dropped.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
