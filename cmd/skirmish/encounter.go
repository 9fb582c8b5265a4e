package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-skirmish/internal/config"
)

// encounterFlags are shared by every command that runs an encounter
type encounterFlags struct {
	configPath string
	seed       uint64
	rate       float64
	maxTurns   int
	redisAddr  string
	steps      bool
}

func (f *encounterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "encounter YAML file (built-in encounter when empty)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (random when zero)")
	cmd.Flags().Float64Var(&f.rate, "rate", 1, "playback rate multiplier")
	cmd.Flags().IntVar(&f.maxTurns, "max-turns", 0, "abort after this many turns (0 = unbounded)")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "redis address for board snapshots")
	cmd.Flags().BoolVar(&f.steps, "steps", false, "print every presentation step")
}

// load reads the encounter file, then applies environment and flag overrides
// in that order
func (f *encounterFlags) load(cmd *cobra.Command) (*config.Encounter, error) {
	enc, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	overrides, err := config.ParseOverrides()
	if err != nil {
		return nil, err
	}
	overrides.Apply(enc)

	flags := cmd.Flags()
	if flags.Changed("seed") {
		enc.Seed = f.seed
	}
	if flags.Changed("rate") {
		enc.PlaybackRate = f.rate
	}
	if flags.Changed("max-turns") {
		enc.MaxTurns = f.maxTurns
	}
	if flags.Changed("redis") {
		enc.RedisAddr = f.redisAddr
	}

	if enc.Seed == 0 {
		enc.Seed = uint64(time.Now().UnixNano())
	}
	slog.Info("Loaded encounter", "name", enc.Name, "seed", enc.Seed)

	return enc, nil
}

// signalContext is cancelled on interrupt or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "Received interrupt, stopping encounter...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
