package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Stage plays timelines
type Stage interface {
	Play(ctx context.Context, t sequencer.Timeline) *sequencer.Playback
}

// Telegraph tell names
const (
	TellAttack     = "Attack"
	TellDefend     = "Defend"
	TellWait       = "Wait"
	TellAllyAttack = "AllyAttack"
	TellAllyDefend = "AllyDefend"
)

type telegrapher struct {
	stage   Stage
	builder *timeline.Builder
}

func newTelegrapher(stage Stage, builder *timeline.Builder) *telegrapher {
	if builder == nil {
		builder = timeline.NewBuilder(timeline.DefaultDurations())
	}
	return &telegrapher{stage: stage, builder: builder}
}

// show plays the tell and blocks until it has finished or ctx ends
func (t *telegrapher) show(ctx context.Context, actor *combat.Actor, tell string, delay time.Duration) error {
	slog.Debug("Telegraphing intent", "actor", actor.Name(), "tell", tell, "delay", delay)

	p := t.stage.Play(ctx, t.builder.Telegraph(tell, delay))
	if p == nil {
		return nil
	}

	select {
	case <-p.Done():
	case <-ctx.Done():
	}
	return ctx.Err()
}
