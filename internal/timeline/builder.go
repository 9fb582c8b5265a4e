// Package timeline turns resolved actions into step sequences. The builder is
// the only place that decides when an effect lands relative to the
// presentation beats around it.
package timeline

import (
	"time"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/sequencer"
)

// Step labels. Collaborators match on these exactly or by prefix.
const (
	LabelBannerAttack = "Banner: Attack"
	LabelBannerDefend = "Banner: Defend"
	LabelBannerShield = "Banner: Shield"
	LabelBannerIntent = "Banner: Intent"
	LabelWindup       = "Windup"
	LabelImpact       = "Impact"
	LabelFlash        = "Flash"
	LabelParrySFX     = "Parry: SFX"
	LabelCharge       = "Cargas+"
	LabelParryNudge   = "Parry: Nudge"
	LabelDamage       = "Damage"
	LabelPose         = "Pose"
	LabelBuffIcon     = "BuffIcon"
	LabelSettle       = "Settle"

	// TellPrefix starts every telegraph label, e.g. "Tell: Attack"
	TellPrefix = "Tell: "

	// ParryPrefix starts the parry reaction labels
	ParryPrefix = "Parry"
)

// Durations are the tunable hold times of each beat
type Durations struct {
	Banner       time.Duration `yaml:"banner"`
	AttackWindup time.Duration `yaml:"attack_windup"`
	SkillWindup  time.Duration `yaml:"skill_windup"`
	Impact       time.Duration `yaml:"impact"`
	ParryNudge   time.Duration `yaml:"parry_nudge"`
	Pose         time.Duration `yaml:"pose"`
	Settle       time.Duration `yaml:"settle"`
}

// DefaultDurations returns the stock beat lengths
func DefaultDurations() Durations {
	return Durations{
		Banner:       100 * time.Millisecond,
		AttackWindup: 250 * time.Millisecond,
		SkillWindup:  200 * time.Millisecond,
		Impact:       100 * time.Millisecond,
		ParryNudge:   80 * time.Millisecond,
		Pose:         300 * time.Millisecond,
		Settle:       200 * time.Millisecond,
	}
}

// Effects are the game-state changes a timeline triggers from its callbacks
type Effects interface {
	// ParrySucceeded announces a nullified attack
	ParrySucceeded(attacker, target *combat.Actor)
	// GrantCharge banks one shield charge on the parrying target
	GrantCharge(target *combat.Actor)
	// ApplyDamage removes HP from the target
	ApplyDamage(attacker, target *combat.Actor, amount int)
	// ApplyDefend raises the actor's guard for the next hit
	ApplyDefend(actor *combat.Actor)
}

// AttackInput describes a resolved basic attack
type AttackInput struct {
	Attacker *combat.Actor
	Target   *combat.Actor
	// Amount is the damage planned after the parry check
	Amount  int
	Parried bool
}

// SkillInput describes a resolved shield skill
type SkillInput struct {
	Actor  *combat.Actor
	Target *combat.Actor
	Amount int
}

// Builder creates timelines. The zero value is not usable; use NewBuilder.
type Builder struct {
	durations Durations
}

// NewBuilder creates a builder. Zero durations fall back to the defaults, so
// a partially filled Durations only overrides what it sets.
func NewBuilder(d Durations) *Builder {
	def := DefaultDurations()
	orDefault := func(v, fallback time.Duration) time.Duration {
		if v <= 0 {
			return fallback
		}
		return v
	}

	return &Builder{durations: Durations{
		Banner:       orDefault(d.Banner, def.Banner),
		AttackWindup: orDefault(d.AttackWindup, def.AttackWindup),
		SkillWindup:  orDefault(d.SkillWindup, def.SkillWindup),
		Impact:       orDefault(d.Impact, def.Impact),
		ParryNudge:   orDefault(d.ParryNudge, def.ParryNudge),
		Pose:         orDefault(d.Pose, def.Pose),
		Settle:       orDefault(d.Settle, def.Settle),
	}}
}

// Durations returns the resolved beat lengths
func (b *Builder) Durations() Durations {
	return b.durations
}

// Attack builds banner, windup, impact, the optional parry reaction, damage
// and settle. Damage is applied by the Damage step, after the impact beat.
func (b *Builder) Attack(in *AttackInput, fx Effects) sequencer.Timeline {
	d := b.durations

	steps := sequencer.Timeline{
		sequencer.Wait(LabelBannerAttack, d.Banner),
		sequencer.Wait(LabelWindup, d.AttackWindup),
		sequencer.Wait(LabelImpact, d.Impact),
	}

	if in.Parried {
		steps = append(steps,
			sequencer.Do(LabelFlash, func() { fx.ParrySucceeded(in.Attacker, in.Target) }),
			sequencer.Wait(LabelParrySFX, 0),
			sequencer.Do(LabelCharge, func() { fx.GrantCharge(in.Target) }),
			sequencer.Wait(LabelParryNudge, d.ParryNudge),
		)
	}

	return append(steps,
		sequencer.Do(LabelDamage, func() { fx.ApplyDamage(in.Attacker, in.Target, in.Amount) }),
		sequencer.Wait(LabelSettle, d.Settle),
	)
}

// Defend builds banner, pose, buff icon and settle. The guard goes up when
// the pose starts.
func (b *Builder) Defend(actor *combat.Actor, fx Effects) sequencer.Timeline {
	d := b.durations

	return sequencer.Timeline{
		sequencer.Wait(LabelBannerDefend, d.Banner),
		sequencer.DoWait(LabelPose, d.Pose, func() { fx.ApplyDefend(actor) }),
		sequencer.Wait(LabelBuffIcon, 0),
		sequencer.Wait(LabelSettle, d.Settle),
	}
}

// ShieldSkill builds banner, windup, impact, damage and settle. Skills are
// never parried.
func (b *Builder) ShieldSkill(in *SkillInput, fx Effects) sequencer.Timeline {
	d := b.durations

	return sequencer.Timeline{
		sequencer.Wait(LabelBannerShield, d.Banner),
		sequencer.Wait(LabelWindup, d.SkillWindup),
		sequencer.Wait(LabelImpact, d.Impact),
		sequencer.Do(LabelDamage, func() { fx.ApplyDamage(in.Actor, in.Target, in.Amount) }),
		sequencer.Wait(LabelSettle, d.Settle),
	}
}

// Telegraph builds the intent signal an AI shows before committing
func (b *Builder) Telegraph(tell string, delay time.Duration) sequencer.Timeline {
	return sequencer.Timeline{
		sequencer.Wait(TellPrefix+tell, 0),
		sequencer.Wait(LabelBannerIntent, delay),
	}
}
