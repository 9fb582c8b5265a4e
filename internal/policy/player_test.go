package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	policymock "github.com/KirkDiggler/rpg-skirmish/internal/policy/mock"
)

type PlayerTestSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	mockSource *policymock.MockDecisionSource
	player     *policy.Player

	hero    *combat.Actor
	goblin  *combat.Actor
	spitter *combat.Actor
}

func TestPlayerSuite(t *testing.T) {
	suite.Run(t, new(PlayerTestSuite))
}

func (s *PlayerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockSource = policymock.NewMockDecisionSource(s.ctrl)

	var err error
	s.player, err = policy.NewPlayer(&policy.PlayerConfig{Source: s.mockSource})
	s.Require().NoError(err)

	s.hero = newActor("hero", combat.TeamPlayer, 30, 6)
	s.goblin = newActor("goblin", combat.TeamEnemy, 12, 5)
	s.spitter = newActor("spitter", combat.TeamEnemy, 10, 4)
}

func (s *PlayerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PlayerTestSuite) view() policy.View {
	return policy.View{Self: s.hero, Opponents: []*combat.Actor{s.goblin, s.spitter}}
}

// answer makes the source respond immediately with the given choice
func (s *PlayerTestSuite) answer(choice combat.Intent) {
	s.mockSource.EXPECT().
		RequestAction(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, req *policy.ActionRequest, onDecision func(combat.Intent)) {
			s.Same(s.hero, req.Actor)
			onDecision(choice)
		})
}

func (s *PlayerTestSuite) decide(p *policy.Player) combat.Intent {
	in, ok := decideSync(s.ctx, func(ctx context.Context, fn func(combat.Intent)) {
		p.Decide(ctx, s.view(), fn)
	})
	s.Require().True(ok, "policy never decided")
	return in
}

func (s *PlayerTestSuite) TestAttackChosenTarget() {
	s.answer(combat.Intent{Kind: combat.ActionAttack, Target: s.spitter})

	in := s.decide(s.player)
	s.Equal(combat.ActionAttack, in.Kind)
	s.Same(s.hero, in.Actor)
	s.Same(s.spitter, in.Target)
	s.Equal(6, in.Amount)
}

func (s *PlayerTestSuite) TestAttackWithoutTargetFallsBackToFirst() {
	s.answer(combat.Intent{Kind: combat.ActionAttack})

	in := s.decide(s.player)
	s.Same(s.goblin, in.Target)
}

func (s *PlayerTestSuite) TestAttackOnDeadTargetFallsBack() {
	s.goblin.TakeDamage(100)
	s.answer(combat.Intent{Kind: combat.ActionAttack, Target: s.goblin})

	in := s.decide(s.player)
	s.Same(s.spitter, in.Target)
}

func (s *PlayerTestSuite) TestAttackWithNoCandidatesWaits() {
	s.goblin.TakeDamage(100)
	s.spitter.TakeDamage(100)
	s.mockSource.EXPECT().
		RequestAction(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, req *policy.ActionRequest, onDecision func(combat.Intent)) {
			s.Empty(req.Candidates)
			onDecision(combat.Intent{Kind: combat.ActionAttack})
		})

	s.Equal(combat.ActionWait, s.decide(s.player).Kind)
}

func (s *PlayerTestSuite) TestAttackKeepsChargesByDefault() {
	s.hero.Charges().Add(2)
	s.answer(combat.Intent{Kind: combat.ActionAttack})

	in := s.decide(s.player)
	s.Equal(6, in.Amount)
	s.Equal(2, s.hero.Charges().Count())
}

func (s *PlayerTestSuite) TestChargedAttackDrainsCharges() {
	p, err := policy.NewPlayer(&policy.PlayerConfig{Source: s.mockSource, ChargedAttacks: true})
	s.Require().NoError(err)
	s.hero.Charges().Add(2)
	s.answer(combat.Intent{Kind: combat.ActionAttack})

	in := s.decide(p)
	s.Equal(10, in.Amount)
	s.Equal(0, s.hero.Charges().Count())
}

func (s *PlayerTestSuite) TestShieldSkillDrainsCharges() {
	s.hero.Charges().Add(3)
	s.answer(combat.Intent{Kind: combat.ActionShieldSkill, Target: s.goblin})

	in := s.decide(s.player)
	s.Equal(combat.ActionShieldSkill, in.Kind)
	s.Equal(6, in.Amount)
	s.Equal(0, s.hero.Charges().Count())
}

func (s *PlayerTestSuite) TestShieldSkillWithoutChargesWaits() {
	s.answer(combat.Intent{Kind: combat.ActionShieldSkill, Target: s.goblin})

	s.Equal(combat.ActionWait, s.decide(s.player).Kind)
}

func (s *PlayerTestSuite) TestDefendDropsTarget() {
	s.answer(combat.Intent{Kind: combat.ActionDefend, Target: s.goblin, Amount: 99})

	in := s.decide(s.player)
	s.Equal(combat.ActionDefend, in.Kind)
	s.Nil(in.Target)
	s.Zero(in.Amount)
}

func (s *PlayerTestSuite) TestUnknownKindWaits() {
	s.answer(combat.Intent{Kind: combat.ActionKind(99)})

	s.Equal(combat.ActionWait, s.decide(s.player).Kind)
}

func (s *PlayerTestSuite) TestDuplicateAnswersDecideOnce() {
	s.mockSource.EXPECT().
		RequestAction(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *policy.ActionRequest, onDecision func(combat.Intent)) {
			onDecision(combat.Intent{Kind: combat.ActionDefend})
			onDecision(combat.Intent{Kind: combat.ActionWait})
		})

	calls := 0
	s.player.Decide(s.ctx, s.view(), func(combat.Intent) { calls++ })
	s.Equal(1, calls)
}

func (s *PlayerTestSuite) TestCancelledContextCancelsRequest() {
	var pending func(combat.Intent)
	s.mockSource.EXPECT().
		RequestAction(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *policy.ActionRequest, onDecision func(combat.Intent)) {
			pending = onDecision
		})

	cancelled := make(chan struct{})
	s.mockSource.EXPECT().CancelRequest().Do(func() { close(cancelled) })

	ctx, cancel := context.WithCancel(s.ctx)
	called := false
	s.player.Decide(ctx, s.view(), func(combat.Intent) { called = true })
	cancel()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		s.FailNow("request was not cancelled")
	}

	pending(combat.Intent{Kind: combat.ActionAttack})
	s.False(called)
}

func (s *PlayerTestSuite) TestConfigValidation() {
	_, err := policy.NewPlayer(&policy.PlayerConfig{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Source")
}
