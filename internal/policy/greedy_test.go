package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
)

type GreedyTestSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *clock.Manual
	recorder *labelRecorder
	stage    *sequencer.Sequencer
	roller   *scriptedRoller
	greedy   *policy.Greedy

	goblin *combat.Actor
	hero   *combat.Actor
}

func TestGreedySuite(t *testing.T) {
	suite.Run(t, new(GreedyTestSuite))
}

func (s *GreedyTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewAutoAdvance(time.Unix(0, 0))
	s.recorder = &labelRecorder{}

	var err error
	s.stage, err = sequencer.New(&sequencer.Config{Clock: s.clock, Observer: s.recorder})
	s.Require().NoError(err)

	s.roller = &scriptedRoller{}
	s.greedy = s.newGreedy(nil)

	s.goblin = newActor("goblin", combat.TeamEnemy, 12, 5)
	s.hero = newActor("hero", combat.TeamPlayer, 30, 6)
}

func (s *GreedyTestSuite) newGreedy(w *policy.Weights) *policy.Greedy {
	g, err := policy.NewGreedy(&policy.GreedyConfig{
		Roller:  s.roller,
		Stage:   s.stage,
		Weights: w,
	})
	s.Require().NoError(err)
	return g
}

func (s *GreedyTestSuite) decide(g *policy.Greedy, view policy.View) combat.Intent {
	in, ok := decideSync(s.ctx, func(ctx context.Context, fn func(combat.Intent)) {
		g.Decide(ctx, view, fn)
	})
	s.Require().True(ok, "policy never decided")
	return in
}

func (s *GreedyTestSuite) view() policy.View {
	return policy.View{Self: s.goblin, Opponents: []*combat.Actor{s.hero}}
}

func (s *GreedyTestSuite) TestAttackUsesAttackStat() {
	s.roller.rolls = []int{chanceRoll(0.1), chanceRoll(0)}

	in := s.decide(s.greedy, s.view())

	s.Equal(combat.ActionAttack, in.Kind)
	s.Same(s.goblin, in.Actor)
	s.Same(s.hero, in.Target)
	s.Equal(5, in.Amount)
}

func (s *GreedyTestSuite) TestTelegraphPlaysBeforeCommit() {
	start := s.clock.Now()
	s.roller.rolls = []int{chanceRoll(0.1), chanceRoll(0.5)}

	s.decide(s.greedy, s.view())

	s.Equal([]string{"Tell: Attack", "Banner: Intent"}, s.recorder.Labels())
	s.Equal(250*time.Millisecond, s.clock.Now().Sub(start))
}

func (s *GreedyTestSuite) TestDefendCooldown() {
	defendRoll := chanceRoll(0.8)
	s.roller.rolls = []int{defendRoll}

	first := s.decide(s.greedy, s.view())
	s.Equal(combat.ActionDefend, first.Kind)
	s.Nil(first.Target)

	second := s.decide(s.greedy, s.view())
	s.Equal(combat.ActionAttack, second.Kind, "defend is off the table right after defending")

	third := s.decide(s.greedy, s.view())
	s.Equal(combat.ActionDefend, third.Kind)
}

func (s *GreedyTestSuite) TestWaitBand() {
	s.roller.rolls = []int{chanceRoll(0.95)}

	in := s.decide(s.greedy, s.view())
	s.Equal(combat.ActionWait, in.Kind)
	s.Contains(s.recorder.Labels(), "Tell: Wait")
}

func (s *GreedyTestSuite) TestZeroWeightsWait() {
	g := s.newGreedy(&policy.Weights{})

	in := s.decide(g, s.view())
	s.Equal(combat.ActionWait, in.Kind)
}

func (s *GreedyTestSuite) TestOnlyDefendWeightAfterDefendWaits() {
	g := s.newGreedy(&policy.Weights{Defend: 1})

	s.Equal(combat.ActionDefend, s.decide(g, s.view()).Kind)
	s.Equal(combat.ActionWait, s.decide(g, s.view()).Kind)
}

func (s *GreedyTestSuite) TestNoTargetForcesWait() {
	s.hero.TakeDamage(100)

	in := s.decide(s.greedy, s.view())
	s.Equal(combat.ActionWait, in.Kind)
}

func (s *GreedyTestSuite) TestRollerFailureWaits() {
	s.roller.err = errors.Internal("dice jammed")

	in := s.decide(s.greedy, s.view())
	s.Equal(combat.ActionWait, in.Kind)
}

func (s *GreedyTestSuite) TestCancelledContextNeverDecides() {
	slow := clock.NewManual(time.Unix(0, 0))
	stage, err := sequencer.New(&sequencer.Config{Clock: slow})
	s.Require().NoError(err)
	g, err := policy.NewGreedy(&policy.GreedyConfig{Roller: s.roller, Stage: stage})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	returned := make(chan struct{})
	called := false
	go func() {
		defer close(returned)
		g.Decide(ctx, s.view(), func(combat.Intent) { called = true })
	}()

	blockCtx, blockCancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer blockCancel()
	s.Require().NoError(slow.BlockUntil(blockCtx, 1))
	cancel()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		s.FailNow("decide did not return after cancel")
	}
	s.False(called)
}

func (s *GreedyTestSuite) TestSeededRollerIsReproducible() {
	run := func() []combat.ActionKind {
		g, err := policy.NewGreedy(&policy.GreedyConfig{
			Roller: policy.NewSeededRoller(42),
			Stage:  s.stage,
		})
		s.Require().NoError(err)

		kinds := make([]combat.ActionKind, 0, 20)
		for i := 0; i < 20; i++ {
			kinds = append(kinds, s.decide(g, s.view()).Kind)
		}
		return kinds
	}

	first := run()
	s.Equal(first, run())

	for i := 1; i < len(first); i++ {
		if first[i-1] == combat.ActionDefend {
			s.NotEqual(combat.ActionDefend, first[i], "turn %d", i)
		}
	}
}

func (s *GreedyTestSuite) TestConfigValidation() {
	_, err := policy.NewGreedy(&policy.GreedyConfig{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Roller")
	s.Contains(err.Error(), "Stage")

	_, err = policy.NewGreedy(&policy.GreedyConfig{
		Roller:  s.roller,
		Stage:   s.stage,
		Weights: &policy.Weights{Attack: -1},
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = policy.NewGreedy(&policy.GreedyConfig{
		Roller:       s.roller,
		Stage:        s.stage,
		TelegraphMin: time.Second,
		TelegraphMax: time.Millisecond,
	})
	s.True(errors.IsInvalidArgument(err))
}
