package main

import (
	"context"
	"fmt"
	"github.com/axgrid/ctrprep"
	"github.com/axgrid/ctrprep/cli"
	"github.com/axgrid/ctrprep/config"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/utils"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-errors/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"
)

type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
	logger     zerolog.Logger
	openLedger func(cfg config.LedgerConfig, logger zerolog.Logger) (ctrprep.Ledger, error)
	teaOptions []tea.ProgramOption
}

func newApp() *app {
	return &app{openLedger: openMySQLLedger}
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	var overwrite bool
	root := &cobra.Command{
		Use:           "ctrprep",
		Short:         "Prepare the Redis transaction counter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd.Context(), overwrite, cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, err)")
	root.Flags().BoolVar(&overwrite, "overwrite", false, "set the counter even if it already exists")

	root.AddCommand(a.initCmd(), a.verifyCmd(), a.advanceCmd(), a.nextCmd(), a.watchCmd(), a.runsCmd())
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.logger = utils.InitLogger(cfg.LogLevel)
	return nil
}

func (a *app) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func (a *app) counter() (ctrprep.Counter, error) {
	return ctrprep.NewCounter().
		WithLogger(a.logger).
		WithRedis(a.cfg.Redis.Host, a.cfg.Redis.Port).
		WithPassword(a.cfg.Redis.Password).
		WithDB(a.cfg.Redis.DB).
		WithKey(a.cfg.Counter.Key).
		WithTimeout(a.cfg.Counter.Timeout).
		Build()
}

func (a *app) ledger() (ctrprep.Ledger, error) {
	if !a.cfg.LedgerEnabled() {
		return nil, domain.ErrLedgerNotConfigured
	}
	return a.openLedger(a.cfg.Ledger, a.logger)
}

func openMySQLLedger(cfg config.LedgerConfig, logger zerolog.Logger) (ctrprep.Ledger, error) {
	return ctrprep.NewLedger().
		WithLogger(logger).
		WithDSN(cfg.DSN).
		WithTable(cfg.Table).
		WithColumn(cfg.Column).
		Build()
}

func (a *app) initCmd() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Load the compare-and-swap script and seed the counter if it is absent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd.Context(), overwrite, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "set the counter even if it already exists")
	return cmd
}

func (a *app) runInit(parent context.Context, overwrite bool, out io.Writer) error {
	ctx, cancel := a.signalContext(parent)
	defer cancel()

	mode, err := a.cfg.SeedMode()
	if err != nil {
		return err
	}
	if overwrite {
		mode = domain.SEED_OVERWRITE
	}
	b := ctrprep.NewInitializer().
		WithLogger(a.logger).
		WithRedis(a.cfg.Redis.Host, a.cfg.Redis.Port).
		WithPassword(a.cfg.Redis.Password).
		WithDB(a.cfg.Redis.DB).
		WithKey(a.cfg.Counter.Key).
		WithValue(a.cfg.Counter.Value).
		WithMode(mode).
		WithTimeout(a.cfg.Counter.Timeout).
		WithOutput(out)
	if a.cfg.LedgerEnabled() {
		ledger, err := a.ledger()
		if err != nil {
			return err
		}
		defer ledger.Close()
		b = b.WithLedger(ledger)
	}
	initializer, err := b.Build()
	if err != nil {
		return err
	}
	_, err = initializer.Run(ctx)
	return err
}

func (a *app) verifyCmd() *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Fail when the ledger holds a counter above the Redis counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.signalContext(cmd.Context())
			defer cancel()
			counter, err := a.counter()
			if err != nil {
				return err
			}
			defer counter.Close()
			ledger, err := a.ledger()
			if err != nil {
				return err
			}
			defer ledger.Close()
			verifier, err := ctrprep.NewVerifier().WithLogger(a.logger).WithCounter(counter).WithLedger(ledger).Build()
			if err != nil {
				return err
			}
			verify := verifier.Verify
			if repair {
				verify = verifier.Repair
			}
			res, err := verify(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Redis counter = %d\nDatabase counter = %d\n", res.Redis, res.Ledger)
			return nil
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "advance the Redis counter to the ledger maximum on mismatch")
	return cmd
}

func (a *app) advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <value>",
		Short: "Raise the counter to value if it is larger and print the difference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.WrapPrefix(domain.ErrCounterNotNumber, args[0], 0)
			}
			ctx, cancel := a.signalContext(cmd.Context())
			defer cancel()
			counter, err := a.counter()
			if err != nil {
				return err
			}
			defer counter.Close()
			diff, err := counter.Advance(ctx, candidate)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}

func (a *app) nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Increment the counter and print the new value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.signalContext(cmd.Context())
			defer cancel()
			counter, err := a.counter()
			if err != nil {
				return err
			}
			defer counter.Close()
			v, err := counter.Next(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	var interval int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the counter, its rate and its lag behind the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.signalContext(cmd.Context())
			defer cancel()
			counter, err := a.counter()
			if err != nil {
				return err
			}
			defer counter.Close()
			var ledger domain.Ledger
			if a.cfg.LedgerEnabled() {
				l, err := a.ledger()
				if err != nil {
					return err
				}
				defer l.Close()
				ledger = l
			}
			model := cli.NewCLI(ctx, time.Duration(interval)*time.Second, counter, ledger)
			opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
			_, err = tea.NewProgram(model, opts...).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&interval, "interval", 2, "refresh interval in seconds")
	return cmd
}

func (a *app) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the latest initializer runs recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.signalContext(cmd.Context())
			defer cancel()
			ledger, err := a.ledger()
			if err != nil {
				return err
			}
			defer ledger.Close()
			runs, err := ledger.Runs(ctx, limit)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"RUN", "KEY", "MODE", "SCRIPT", "SEEDED", "VALUE", "AT"})
			for _, r := range runs {
				table.Append([]string{
					utils.Shortener(r.RunID.String()),
					r.Key,
					r.Mode,
					utils.Shortener(r.ScriptSHA),
					strconv.FormatBool(r.Seeded),
					r.Value,
					r.CreatedAt.Format(utils.LogTimeFormat),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
