// File: cmd/run.go
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/macrokey/internal/config"
	"github.com/xkilldash9x/macrokey/internal/host"
	"github.com/xkilldash9x/macrokey/internal/humanoid"
	"github.com/xkilldash9x/macrokey/internal/observability"
)

// errQuit ends the run command normally.
var errQuit = errors.New("quit requested")

func newRunCmd() *cobra.Command {
	var (
		mode     string
		effector string
		wait     string
		tick     time.Duration
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the macro engine against a keyboard effector",
		Long: `Runs the macro engine until interrupted. Commands are read from stdin,
one per line:
  <mode>   toggle that mode (start, stop, or switch)
  stop     release everything and go idle
  quit     stop and exit (EOF does the same)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("mode") {
				cfg.SetHostStartMode(mode)
			}
			if flags.Changed("effector") {
				cfg.SetHostEffector(effector)
			}
			if flags.Changed("wait") {
				cfg.SetHostWait(wait)
			}
			if flags.Changed("tick") {
				cfg.SetHostTickInterval(tick)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			return runEngine(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	runCmd.Flags().StringVarP(&mode, "mode", "m", "", "mode to start immediately")
	runCmd.Flags().StringVar(&effector, "effector", config.EffectorLog, "key effector: log or uinput")
	runCmd.Flags().StringVar(&wait, "wait", config.WaitSpin, "wait strategy: spin or sleep")
	runCmd.Flags().DurationVar(&tick, "tick", time.Millisecond, "scan tick interval")
	return runCmd
}

// runEngine wires the engine to the host and serves commands from in until
// quit, EOF or cancellation of ctx.
func runEngine(ctx context.Context, cfg config.Interface, in io.Reader, out io.Writer) error {
	logger := observability.GetLogger()

	table, err := cfg.PolicyTable()
	if err != nil {
		return err
	}
	hc := cfg.HumanoidConfig()
	if hc.Entropy == nil {
		hc.Entropy = host.SystemEntropy
	}

	exec, closer, err := host.Build(cfg.Host(), observability.Component("host"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logger.Warn("Failed to close effector.", zap.Error(cerr))
		}
	}()

	engine := humanoid.New(hc, table, observability.Component("engine"), exec)
	loop := host.NewLoop(engine, exec, cfg.Host().TickInterval, observability.Component("host"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		if start := cfg.Host().StartMode; start != "" {
			if err := loop.Toggle(gctx, start); err != nil {
				return err
			}
		}
		return serveCommands(gctx, in, out, loop)
	})

	err = g.Wait()
	switch {
	case err == nil, errors.Is(err, errQuit):
		return nil
	case ctx.Err() != nil && (errors.Is(err, ctx.Err()) || errors.Is(err, host.ErrLoopStopped)):
		// Interrupted while a command was in flight.
		return nil
	default:
		return err
	}
}

// serveCommands reads one command per line. The reader runs on its own
// goroutine so that a blocked read never delays shutdown.
func serveCommands(ctx context.Context, in io.Reader, out io.Writer, loop *host.Loop) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			command := strings.ToLower(strings.TrimSpace(line))
			switch command {
			case "":
				continue
			case "quit", "exit":
				return errQuit
			case "stop":
				if err := loop.ForceStop(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "stopped")
			default:
				err := loop.Toggle(ctx, command)
				if errors.Is(err, humanoid.ErrUnknownMode) {
					fmt.Fprintf(out, "unknown mode '%s'\n", command)
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "toggled %s\n", command)
			}
		}
	}
}
