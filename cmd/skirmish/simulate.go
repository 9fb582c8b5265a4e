package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-skirmish/internal/arena"
	"github.com/KirkDiggler/rpg-skirmish/internal/hud"
	"github.com/KirkDiggler/rpg-skirmish/internal/input"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
)

var (
	simulateFlags encounterFlags
	parrySkill    float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one encounter with an autopilot hero",
	Long:  `Run one encounter on a virtual clock. The hero is played by an autopilot that parries telegraphed attacks with the given skill.`,
	RunE:  runSimulate,
}

func init() {
	simulateFlags.register(simulateCmd)
	simulateCmd.Flags().Float64Var(&parrySkill, "parry-skill", 0.5, "chance the autopilot parries a telegraphed attack")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	enc, err := simulateFlags.load(cmd)
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
		Clock:      clock.NewAutoAdvance(time.Now()),
		Source:     input.Autopilot{},
		Repository: repo,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	reflex, err := input.NewReflex(&input.ReflexConfig{
		Tapper: a.Parry,
		Roller: policy.NewSeededRoller(enc.Seed ^ 0xa5a5a5a5),
		Skill:  parrySkill,
	})
	if err != nil {
		return err
	}
	reflex.Attach(a.Bus)
	defer reflex.Detach()

	narrator, err := hud.NewNarrator(&hud.NarratorConfig{
		Bus:       a.Bus,
		Out:       os.Stdout,
		ShowSteps: simulateFlags.steps,
	})
	if err != nil {
		return err
	}
	defer narrator.Close()

	fmt.Printf("%s (seed %d)\n", enc.Name, enc.Seed)
	out, err := a.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(hud.Board(a.Scheduler.Board()))
	fmt.Printf("%s in %d turns, %d parry taps\n", out.Outcome, out.Turns, reflex.Taps())
	return nil
}
