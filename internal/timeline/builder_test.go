package timeline_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

type effectsRecorder struct {
	calls []string
}

func (r *effectsRecorder) ParrySucceeded(attacker, target *combat.Actor) {
	r.calls = append(r.calls, "parry:"+attacker.Name()+">"+target.Name())
}

func (r *effectsRecorder) GrantCharge(target *combat.Actor) {
	r.calls = append(r.calls, "charge:"+target.Name())
}

func (r *effectsRecorder) ApplyDamage(attacker, target *combat.Actor, amount int) {
	r.calls = append(r.calls, fmt.Sprintf("damage:%s:%d", target.Name(), amount))
}

func (r *effectsRecorder) ApplyDefend(actor *combat.Actor) {
	r.calls = append(r.calls, "defend:"+actor.Name())
}

type BuilderTestSuite struct {
	suite.Suite
	builder *timeline.Builder
	fx      *effectsRecorder
	hero    *combat.Actor
	goblin  *combat.Actor
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

func (s *BuilderTestSuite) SetupTest() {
	s.builder = timeline.NewBuilder(timeline.Durations{})
	s.fx = &effectsRecorder{}

	var err error
	s.hero, err = combat.NewActor(&combat.ActorConfig{ID: "hero", Name: "Hero", MaxHP: 30, Attack: 6})
	s.Require().NoError(err)
	s.goblin, err = combat.NewActor(&combat.ActorConfig{
		ID: "goblin", Name: "Goblin", Team: combat.TeamEnemy, MaxHP: 12, Attack: 5,
	})
	s.Require().NoError(err)
}

func runCallbacks(t sequencer.Timeline) {
	for _, step := range t {
		if step.Callback != nil {
			step.Callback()
		}
	}
}

func (s *BuilderTestSuite) TestAttackWithoutParry() {
	tl := s.builder.Attack(&timeline.AttackInput{Attacker: s.goblin, Target: s.hero, Amount: 5}, s.fx)

	s.Equal([]string{"Banner: Attack", "Windup", "Impact", "Damage", "Settle"}, tl.Labels())
	s.Equal(100*time.Millisecond, tl[0].Duration)
	s.Equal(250*time.Millisecond, tl[1].Duration)
	s.Equal(100*time.Millisecond, tl[2].Duration)
	s.Zero(tl[3].Duration)
	s.Equal(200*time.Millisecond, tl[4].Duration)

	s.Empty(s.fx.calls, "building must not apply effects")
	runCallbacks(tl)
	s.Equal([]string{"damage:Hero:5"}, s.fx.calls)
}

func (s *BuilderTestSuite) TestAttackWithParry() {
	tl := s.builder.Attack(&timeline.AttackInput{
		Attacker: s.goblin,
		Target:   s.hero,
		Parried:  true,
	}, s.fx)

	s.Equal([]string{
		"Banner: Attack", "Windup", "Impact",
		"Flash", "Parry: SFX", "Cargas+", "Parry: Nudge",
		"Damage", "Settle",
	}, tl.Labels())
	s.Equal(80*time.Millisecond, tl[6].Duration)

	runCallbacks(tl)
	s.Equal([]string{"parry:Goblin>Hero", "charge:Hero", "damage:Hero:0"}, s.fx.calls)
}

func (s *BuilderTestSuite) TestDefend() {
	tl := s.builder.Defend(s.hero, s.fx)

	s.Equal([]string{"Banner: Defend", "Pose", "BuffIcon", "Settle"}, tl.Labels())
	s.Equal(300*time.Millisecond, tl[1].Duration)
	s.NotNil(tl[1].Callback)

	runCallbacks(tl)
	s.Equal([]string{"defend:Hero"}, s.fx.calls)
}

func (s *BuilderTestSuite) TestShieldSkill() {
	tl := s.builder.ShieldSkill(&timeline.SkillInput{Actor: s.hero, Target: s.goblin, Amount: 8}, s.fx)

	s.Equal([]string{"Banner: Shield", "Windup", "Impact", "Damage", "Settle"}, tl.Labels())
	s.Equal(200*time.Millisecond, tl[1].Duration)

	runCallbacks(tl)
	s.Equal([]string{"damage:Goblin:8"}, s.fx.calls)
}

func (s *BuilderTestSuite) TestTelegraph() {
	tl := s.builder.Telegraph("Attack", 250*time.Millisecond)

	s.Equal([]string{"Tell: Attack", "Banner: Intent"}, tl.Labels())
	s.Equal(250*time.Millisecond, tl.TotalDuration())
}

func (s *BuilderTestSuite) TestDurationOverrides() {
	b := timeline.NewBuilder(timeline.Durations{Settle: time.Second})

	s.Equal(time.Second, b.Durations().Settle)
	s.Equal(timeline.DefaultDurations().Banner, b.Durations().Banner)
}
