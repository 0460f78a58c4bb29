package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"iso2_automation/application/runner"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/browser"
	"iso2_automation/infrastructure/config"
	"iso2_automation/infrastructure/logging"
	"iso2_automation/infrastructure/storage"
)

type options struct {
	Config string `short:"c" long:"config" description:"TOML settings file, overrides CONFIG_FILE"`
	Env    string `short:"e" long:"env" description:"settings profile: development, staging or production, overrides ENV"`

	Install   installCommand   `command:"install" description:"download the playwright driver and browser engine"`
	Scenarios scenariosCommand `command:"scenarios" description:"list smoke scenarios"`
	Smoke     smokeCommand     `command:"smoke" description:"run smoke scenarios against the app"`
	History   historyCommand   `command:"history" description:"print recent smoke runs"`
}

type installCommand struct {
	app *TerminalInterface
}

type scenariosCommand struct {
	app *TerminalInterface
}

type smokeCommand struct {
	Scenario   []string `short:"s" long:"scenario" description:"scenario to run, repeatable; all when omitted"`
	ReuseState bool     `long:"reuse-state" description:"start from the browser state saved by the login scenario"`

	app *TerminalInterface
}

type historyCommand struct {
	Limit int `short:"n" long:"limit" default:"10" description:"how many runs to show"`

	app *TerminalInterface
}

// TerminalInterface is the command line front end of the smoke runner
type TerminalInterface struct {
	ctx    context.Context
	out    io.Writer
	opts   options
	cfg    *config.Config
	logger *logrus.Logger

	closeLog func() error
	launcher *browser.Launcher
}

// NewTerminalInterface - creates the CLI writing its reports to out
func NewTerminalInterface(out io.Writer) *TerminalInterface {
	t := &TerminalInterface{out: out}
	t.opts.Install.app = t
	t.opts.Scenarios.app = t
	t.opts.Smoke.app = t
	t.opts.History.app = t
	return t
}

// Run - parses args and executes the selected command
func (t *TerminalInterface) Run(ctx context.Context, args []string) error {
	t.ctx = ctx
	parser := flags.NewParser(&t.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := t.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(t.out, flagsErr.Message)
			return nil
		}
		return err
	}
	return nil
}

// Close - stops the browser and flushes the log file
func (t *TerminalInterface) Close() error {
	var errs []error
	if t.launcher != nil {
		errs = append(errs, t.launcher.Close())
	}
	if t.closeLog != nil {
		errs = append(errs, t.closeLog())
	}
	return errors.Join(errs...)
}

func (t *TerminalInterface) setup() error {
	if t.opts.Config != "" {
		if err := os.Setenv("CONFIG_FILE", t.opts.Config); err != nil {
			return err
		}
	}
	if t.opts.Env != "" {
		if err := os.Setenv("ENV", t.opts.Env); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg)
	if err != nil {
		return err
	}
	t.cfg = cfg
	t.logger = logger
	t.closeLog = closeLog
	t.launcher = browser.NewLauncher(cfg, logger)
	return nil
}

func (c *installCommand) Execute([]string) error {
	c.app.logger.Infof("Installing playwright with %s", c.app.cfg.Browser)
	return browser.Install(c.app.cfg)
}

func (c *scenariosCommand) Execute([]string) error {
	scenarios := runner.Builtin(c.app.cfg, c.app.logger)
	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	for _, name := range runner.Names(scenarios) {
		sc := scenarios[name]
		fmt.Fprintf(w, "%s\t%d steps\t%s\n", name, len(sc.Steps), sc.Description)
	}
	return w.Flush()
}

func (c *smokeCommand) Execute([]string) error {
	app := c.app
	selected, err := runner.Select(runner.Builtin(app.cfg, app.logger), c.Scenario)
	if err != nil {
		return err
	}

	store, err := storage.NewRunHistory(app.cfg.StateDir, 0)
	if err != nil {
		return err
	}

	var sessions interfaces.SessionProvider = app.launcher
	if c.ReuseState {
		if !storage.HasState(app.cfg.StateDir) {
			return fmt.Errorf("no saved browser state in %s, run the login scenario first", app.cfg.StateDir)
		}
		sessions = app.launcher.WithState(storage.StatePath(app.cfg.StateDir))
	}

	r := runner.NewRunner(sessions, store, app.cfg, app.logger)
	var failed []string
	for _, sc := range selected {
		report, err := r.Run(app.ctx, sc)
		fmt.Fprintf(app.out, "%-14s %-6s %s\n", sc.Name, report.Status, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
		if err != nil {
			failed = append(failed, sc.Name)
			fmt.Fprintf(app.out, "  %v\n", err)
			if !report.Artifacts.Empty() {
				fmt.Fprintf(app.out, "  artifacts: %s\n", strings.Join(nonEmpty(report.Artifacts.Screenshot, report.Artifacts.Trace, report.Artifacts.Video), ", "))
			}
		}
		if app.ctx.Err() != nil {
			break
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d scenarios failed: %s", len(failed), len(selected), strings.Join(failed, ", "))
	}
	return nil
}

func (c *historyCommand) Execute([]string) error {
	store, err := storage.NewRunHistory(c.app.cfg.StateDir, 0)
	if err != nil {
		return err
	}
	reports, err := store.LoadReports()
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(reports) > c.Limit {
		reports = reports[len(reports)-c.Limit:]
	}
	if len(reports) == 0 {
		fmt.Fprintln(c.app.out, "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSCENARIO\tSTATUS\tDURATION\tFAILED STEP")
	for i := len(reports) - 1; i >= 0; i-- {
		r := reports[i]
		failedStep := "-"
		for _, s := range r.Steps {
			if !s.Passed {
				failedStep = fmt.Sprintf("%s (%s)", s.Name, s.Code)
				break
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Scenario,
			r.Status,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			failedStep,
		)
	}
	return w.Flush()
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
