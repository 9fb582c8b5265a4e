package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-skirmish/internal/arena"
	"github.com/KirkDiggler/rpg-skirmish/internal/bus"
	"github.com/KirkDiggler/rpg-skirmish/internal/hud"
	"github.com/KirkDiggler/rpg-skirmish/internal/input"
	"github.com/KirkDiggler/rpg-skirmish/internal/parry"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
)

var playFlags encounterFlags

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one encounter from the terminal",
	Long: `Play one encounter in real time. Commands: a [n] attack, d defend, w wait,
s [n] shield skill, p parry. Send p right as an enemy attack banner closes to parry it.`,
	RunE: runPlay,
}

func init() {
	playFlags.register(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	enc, err := playFlags.load(cmd)
	if err != nil {
		return err
	}

	clk := clock.New()
	window, err := parry.NewWindow(&parry.Config{Clock: clk, Window: enc.ParryWindow})
	if err != nil {
		return err
	}

	console, err := input.NewConsole(&input.ConsoleConfig{
		In:     os.Stdin,
		Out:    os.Stdout,
		Tapper: window,
	})
	if err != nil {
		return err
	}

	repo, closeRepo, err := arena.OpenRepository(ctx, enc.RedisAddr, encounters.DefaultTTL)
	if err != nil {
		return err
	}
	defer closeRepo()

	a, err := arena.New(&arena.Config{
		Encounter:  enc,
		Clock:      clk,
		Source:     console,
		Parry:      window,
		Repository: repo,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	narrator, err := hud.NewNarrator(&hud.NarratorConfig{
		Bus:       a.Bus,
		Out:       os.Stdout,
		ShowSteps: playFlags.steps,
	})
	if err != nil {
		return err
	}
	defer narrator.Close()

	a.Bus.OnTurnStarted(func(context.Context, bus.TurnStarted) {
		fmt.Println(hud.Board(a.Scheduler.Board()))
	})

	go func() {
		if err := console.Run(ctx); err != nil {
			slog.Warn("Console input stopped", "error", err)
		}
		// Nobody can answer once input is gone.
		cancel()
	}()

	out, err := a.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(hud.Board(a.Scheduler.Board()))
	fmt.Printf("%s in %d turns\n", out.Outcome, out.Turns)
	return nil
}
