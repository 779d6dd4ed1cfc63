package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rezmoss/letsdo/internal/config"
	"github.com/rezmoss/letsdo/internal/dashboard"
	"github.com/rezmoss/letsdo/internal/domain"
	"github.com/rezmoss/letsdo/internal/logger"
	"github.com/rezmoss/letsdo/internal/report"
	"github.com/rezmoss/letsdo/internal/store/file"
	"github.com/rezmoss/letsdo/internal/tracker"
)

// options holds the parsed command line.
type options struct {
	cfgFile string
	verbose bool

	change      bool
	replace     string
	keep        bool
	id          int
	at          string
	report      bool
	reportFull  bool
	reportDaily bool
	stop        bool
	to          bool
	force       bool
	dashboard   bool

	// interactive reports whether the user can answer a prompt.
	interactive func(in io.Reader) bool
}

// stdinIsTerminal reports whether the user can answer a prompt on in.
var stdinIsTerminal = isTerminal

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{interactive: stdinIsTerminal}

	cmd := &cobra.Command{
		Use:   "letsdo [flags] [name...]",
		Short: "Track the time spent on tasks",
		Long: `letsdo records what you are working on.

With no arguments it reports the running task, or offers to start an unnamed
one. With a name it starts a new task. Names may carry one @context and any
number of +tags.

Times given with --time accept YYYY-MM-DD HH:MM, YYYY-MM-DD, MM-DD [HH:MM]
and HH:MM (or HH.MM).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cfgFile, "config", "", "Config file (default: $"+config.EnvConfig+" or ~/"+config.DefaultConfigFile+")")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug diagnostics")
	f.BoolVarP(&opts.change, "change", "c", false, "Rename the running task to the given name")
	f.StringVar(&opts.replace, "replace", "", "With --change, replace this text in the running task name")
	f.BoolVarP(&opts.keep, "keep", "k", false, "Restart a task from the history")
	f.IntVar(&opts.id, "id", 1, "With --keep, history index counted from the most recent task (1)")
	f.StringVarP(&opts.at, "time", "t", "", "Start or stop time instead of now")
	f.BoolVarP(&opts.report, "report", "r", false, "Report total time per task")
	f.BoolVar(&opts.reportFull, "report-full", false, "Report every interval grouped by day")
	f.BoolVar(&opts.reportDaily, "report-daily", false, "Report time per task for each day")
	f.BoolVarP(&opts.stop, "stop", "s", false, "Stop the running task")
	f.BoolVar(&opts.to, "to", false, "Stop the running task and start the given one")
	f.BoolVarP(&opts.force, "force", "f", false, "Start an unnamed task without asking")
	f.BoolVar(&opts.dashboard, "dashboard", false, "Show a live dashboard")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	path, err := config.Path(opts.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(level, cmd.ErrOrStderr())
	log.Debug("configuration", "config", path, "data", cfg.DataPath, "task", cfg.TaskPath)

	tr, err := tracker.New(file.New(cfg.DataPath, cfg.TaskPath), tracker.WithLogger(log))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := strings.Join(args, " ")

	switch {
	case opts.stop:
		done, err := tr.Stop(opts.at)
		if err != nil {
			return warn(out, err)
		}
		fmt.Fprintf(out, "Stopped task '%s' after %s of work\n", done.Name, domain.FormatDuration(done.WorkTime()))

	case opts.change:
		if name == "" {
			return fmt.Errorf("--change needs the new task name")
		}
		var task *domain.Task
		if opts.replace != "" {
			task, err = tr.Replace(opts.replace, name)
		} else {
			task, err = tr.Change(name)
		}
		if err != nil {
			return warn(out, err)
		}
		fmt.Fprintf(out, "Renamed running task to '%s'\n", task.Name)

	case opts.to:
		if name == "" {
			return fmt.Errorf("--to needs the new task name")
		}
		stopped, started, err := tr.Switch(name, opts.at)
		if stopped != nil {
			fmt.Fprintf(out, "Stopped task '%s' after %s of work\n", stopped.Name, domain.FormatDuration(stopped.WorkTime()))
		}
		if err != nil {
			return warn(out, err)
		}
		printStarted(out, started)

	case opts.keep:
		task, err := tr.WorkOn(opts.id, opts.at)
		if err != nil {
			return warn(out, err)
		}
		printStarted(out, task)

	case opts.report, opts.reportFull, opts.reportDaily:
		tasks, err := tr.History()
		if err != nil {
			return err
		}
		p := report.NewPrinter(out)
		switch {
		case opts.reportFull:
			p.Full(report.Full(tasks))
		case opts.reportDaily:
			p.Daily(report.Daily(tasks))
		default:
			p.Simple(report.Simple(tasks))
		}

	case opts.dashboard:
		return dashboard.Run(tr)

	default:
		return startOrStatus(cmd, opts, tr, name)
	}
	return nil
}

// startOrStatus reports the running task when no name is given, otherwise
// starts a new one. An unnamed task needs --force or a confirmation.
func startOrStatus(cmd *cobra.Command, opts *options, tr *tracker.Tracker, name string) error {
	out := cmd.OutOrStdout()

	if name == "" {
		st, err := tr.Status()
		if err == nil {
			fmt.Fprintln(out, st)
			return nil
		}
		if !domain.IsRecoverable(err) {
			return err
		}
		if !opts.force {
			if !opts.interactive(cmd.InOrStdin()) {
				fmt.Fprintln(out, "No task running")
				return nil
			}
			fmt.Fprint(out, "No running task. Let's create a new unnamed one [y/n]?: ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				return nil
			}
		}
		name = domain.DefaultName
	}

	task, err := tr.Start(name, opts.at)
	if err != nil {
		if err := warn(out, err); err != nil {
			return err
		}
		if st, serr := tr.Status(); serr == nil {
			fmt.Fprintln(out, st)
		}
		return nil
	}
	printStarted(out, task)
	return nil
}

func printStarted(w io.Writer, t *domain.Task) {
	fmt.Fprintf(w, "Starting task '%s' at %s\n", t.Name, t.StartTime.Format("15:04"))
}

// warn prints recoverable errors as a single line and swallows them. Other
// errors are returned so the command fails.
func warn(w io.Writer, err error) error {
	if !domain.IsRecoverable(err) {
		return err
	}
	fmt.Fprintf(w, "Warning: %v\n", err)
	return nil
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
