package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"relane/internal/config"
	"relane/internal/logging"
	"relane/internal/report"
	"relane/internal/sim"
	"relane/internal/trace"
	"relane/internal/workload"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var blocks int
	var producer string
	var consumer string
	var seed uint64
	var maxTicks uint64
	var noTrace bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Push a block workload through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			wl := cfg.Workload
			if cmd.Flags().Changed("blocks") {
				wl.Blocks = blocks
			}
			if cmd.Flags().Changed("producer") {
				wl.Producer = producer
			}
			if cmd.Flags().Changed("consumer") {
				wl.Consumer = consumer
			}
			if cmd.Flags().Changed("seed") {
				wl.Seed = seed
			}
			if cmd.Flags().Changed("max-ticks") {
				wl.MaxTicks = maxTicks
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return executeRun(runCtx, cmd, cfg, wl, logger, !noTrace && cfg.Trace.Enabled)
		},
	}

	cmd.Flags().IntVar(&blocks, "blocks", 0, "Number of blocks to push through the pipeline")
	cmd.Flags().StringVar(&producer, "producer", "", "Producer duty pattern (always, never, every:N, burst:ON,OFF)")
	cmd.Flags().StringVar(&consumer, "consumer", "", "Consumer duty pattern (always, never, every:N, burst:ON,OFF)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Payload generator seed")
	cmd.Flags().Uint64Var(&maxTicks, "max-ticks", 0, "Abort the run after this many ticks (0 derives a budget)")
	cmd.Flags().BoolVar(&noTrace, "no-trace", false, "Skip recording the run to the trace database")

	return cmd
}

func buildSystem(cfg *config.Config) (*sim.System, error) {
	p := cfg.Pipeline
	return sim.New(sim.Spec{
		Lanes:       p.Lanes,
		Depth:       p.Depth,
		PayloadBits: p.PayloadBits,
		SeqBits:     p.SeqBits,
		CounterBits: p.CounterBits,
		MasterKey:   cfg.MasterKeyValue(),
	})
}

func executeRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, wl config.Workload, logger *slog.Logger, traced bool) error {
	sys, err := buildSystem(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	producerPattern, err := workload.ParsePattern(wl.Producer)
	if err != nil {
		return fmt.Errorf("producer pattern: %w", err)
	}
	consumerPattern, err := workload.ParsePattern(wl.Consumer)
	if err != nil {
		return fmt.Errorf("consumer pattern: %w", err)
	}

	src := workload.NewSource(producerPattern, wl.Seed, wl.Blocks)
	sink := workload.NewSink(consumerPattern)

	var run *trace.Run
	var recordErr error
	if traced {
		store, err := trace.Open(cfg.Trace.Dir)
		if err != nil {
			return fmt.Errorf("open trace store: %w", err)
		}
		defer func() { _ = store.Close() }()

		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		run, err = store.BeginRun(ctx, string(cfgJSON))
		if err != nil {
			return fmt.Errorf("begin trace run: %w", err)
		}
	}

	var onEvent func(workload.Event)
	if run != nil {
		onEvent = func(ev workload.Event) {
			if recordErr != nil {
				return
			}
			recordErr = run.Record(ctx, trace.Event{
				Tick: ev.Tick,
				Kind: ev.Kind,
				Lane: ev.Lane,
				Seq:  ev.Seq,
			})
		}
	}

	runner := workload.NewRunner(sys, src, sink, logger, onEvent)
	result, err := runner.Run(ctx, wl.MaxTicks)
	if err != nil {
		return err
	}
	if recordErr != nil {
		return fmt.Errorf("record trace events: %w", recordErr)
	}

	if run != nil {
		if err := run.Finish(ctx, result.Ticks, result.Admitted, result.Released); err != nil {
			return err
		}
		logger.Info("trace run recorded", logging.Args(
			logging.String(logging.FieldRunID, run.ID()),
			logging.Uint64("events", result.Admitted+result.Released),
		)...)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderPairs(report.Summary(sys.Spec(), result)))

	laneHeaders, laneRows := report.LaneAdmits(result)
	fmt.Fprintln(out, renderCounts(laneHeaders, laneRows))

	if run != nil {
		fmt.Fprintf(out, "Recorded run %s\n", run.ID())
	}
	return nil
}
