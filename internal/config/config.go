// Package config loads encounter definitions from YAML and applies
// environment overrides.
package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Policy kinds accepted in an encounter file
const (
	PolicyPlayer   = "player"
	PolicyGreedy   = "greedy"
	PolicyReactive = "reactive"
)

// Encounter is one skirmish definition
type Encounter struct {
	Name string `yaml:"name"`

	// Seed drives every policy roll; zero means pick one at startup
	Seed uint64 `yaml:"seed"`

	PlaybackRate   float64       `yaml:"playback_rate"`
	ParryWindow    time.Duration `yaml:"parry_window"`
	MaxTurns       int           `yaml:"max_turns"`
	ChargedAttacks bool          `yaml:"charged_attacks"`

	// DefendableTeam is the only team whose members can parry
	DefendableTeam string `yaml:"defendable_team"`

	Durations timeline.Durations `yaml:"durations"`
	Actors    []Actor            `yaml:"actors"`

	// RedisAddr enables the Redis snapshot repository when set
	RedisAddr string `yaml:"redis_addr"`
}

// Actor is one roster entry
type Actor struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Team   string  `yaml:"team"`
	HP     int     `yaml:"hp"`
	Attack int     `yaml:"attack"`
	Shield *Shield `yaml:"shield"`
	Policy Policy  `yaml:"policy"`
}

// Shield configures a charge accumulator
type Shield struct {
	MaxCharges      int `yaml:"max_charges"`
	DamagePerCharge int `yaml:"damage_per_charge"`
}

// Policy selects and tunes an actor's decision policy
type Policy struct {
	Kind         string          `yaml:"kind"`
	Weights      *policy.Weights `yaml:"weights"`
	Tuning       *policy.Tuning  `yaml:"tuning"`
	TelegraphMin time.Duration   `yaml:"telegraph_min"`
	TelegraphMax time.Duration   `yaml:"telegraph_max"`
}

// Overrides holds the runtime environment overrides. Zero values leave the
// file setting untouched.
type Overrides struct {
	PlaybackRate float64       `env:"SKIRMISH_PLAYBACK_RATE"`
	ParryWindow  time.Duration `env:"SKIRMISH_PARRY_WINDOW"`
	Seed         uint64        `env:"SKIRMISH_SEED"`
	RedisAddr    string        `env:"SKIRMISH_REDIS_ADDR"`
	MaxTurns     int           `env:"SKIRMISH_MAX_TURNS"`
}

// Default returns the built-in encounter: a hero with a shield and a
// companion against two goblins
func Default() *Encounter {
	return &Encounter{
		Name:           "Goblin ambush",
		PlaybackRate:   1,
		DefendableTeam: combat.TeamPlayer.String(),
		Durations:      timeline.DefaultDurations(),
		Actors: []Actor{
			{
				ID: "hero", Name: "Hero", Team: combat.TeamPlayer.String(), HP: 30, Attack: 6,
				Shield: &Shield{MaxCharges: combat.DefaultMaxCharges, DamagePerCharge: combat.DefaultDamagePerCharge},
				Policy: Policy{Kind: PolicyPlayer},
			},
			{
				ID: "squire", Name: "Squire", Team: combat.TeamPlayer.String(), HP: 20, Attack: 4,
				Policy: Policy{Kind: PolicyReactive},
			},
			{
				ID: "goblin-1", Name: "Goblin", Team: combat.TeamEnemy.String(), HP: 20, Attack: 5,
				Policy: Policy{Kind: PolicyGreedy},
			},
			{
				ID: "goblin-2", Name: "Goblin Archer", Team: combat.TeamEnemy.String(), HP: 14, Attack: 7,
				Policy: Policy{Kind: PolicyGreedy},
			},
		},
	}
}

// Load reads an encounter file; an empty path returns Default
func Load(path string) (*Encounter, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read encounter file %s", path)
	}

	return Parse(data)
}

// Parse decodes an encounter document and fills defaults for omitted fields
func Parse(data []byte) (*Encounter, error) {
	enc := &Encounter{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(enc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode encounter")
	}

	enc.applyDefaults()
	if err := enc.Validate(); err != nil {
		return nil, err
	}

	return enc, nil
}

func (e *Encounter) applyDefaults() {
	if e.PlaybackRate == 0 {
		e.PlaybackRate = 1
	}
	e.DefendableTeam = strings.ToLower(strings.TrimSpace(e.DefendableTeam))
	if e.DefendableTeam == "" {
		e.DefendableTeam = combat.TeamPlayer.String()
	}
	for i := range e.Actors {
		a := &e.Actors[i]
		a.Team = strings.ToLower(strings.TrimSpace(a.Team))
		if a.Name == "" {
			a.Name = a.ID
		}
		a.Policy.Kind = strings.ToLower(strings.TrimSpace(a.Policy.Kind))
	}
}

// Validate checks the roster and tuning
func (e *Encounter) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(e.Actors) == 0 {
		vb.RequiredField("actors")
	}
	if e.PlaybackRate < 0 {
		vb.Field("playback_rate", "must not be negative")
	}
	if e.ParryWindow < 0 {
		vb.Field("parry_window", "must not be negative")
	}
	if e.MaxTurns < 0 {
		vb.Field("max_turns", "must not be negative")
	}
	if _, ok := combat.ParseTeam(e.DefendableTeam); !ok {
		vb.InvalidField("defendable_team", "unknown team "+e.DefendableTeam)
	}

	seen := make(map[string]bool, len(e.Actors))
	players := 0
	for i, a := range e.Actors {
		if a.ID == "" {
			vb.Fieldf("actors", "entry %d has no id", i)
			continue
		}
		if seen[a.ID] {
			vb.Fieldf("actors", "duplicate id %s", a.ID)
		}
		seen[a.ID] = true

		if a.HP <= 0 {
			vb.Fieldf("actors", "%s: hp must be positive", a.ID)
		}
		if a.Attack < 0 {
			vb.Fieldf("actors", "%s: attack must not be negative", a.ID)
		}
		if _, ok := combat.ParseTeam(a.Team); !ok {
			vb.Fieldf("actors", "%s: unknown team %q", a.ID, a.Team)
		}

		switch a.Policy.Kind {
		case PolicyPlayer:
			players++
		case PolicyGreedy, PolicyReactive:
		default:
			vb.Fieldf("actors", "%s: unknown policy %q", a.ID, a.Policy.Kind)
		}
	}
	if players > 1 {
		vb.Field("actors", "at most one actor may use the player policy")
	}

	return vb.Build()
}

// ParseOverrides reads the SKIRMISH_* environment variables
func ParseOverrides() (*Overrides, error) {
	o := &Overrides{}
	if err := env.Parse(o); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return o, nil
}

// Apply copies every non-zero override onto the encounter
func (o *Overrides) Apply(e *Encounter) {
	if o == nil || e == nil {
		return
	}
	if o.PlaybackRate > 0 {
		e.PlaybackRate = o.PlaybackRate
	}
	if o.ParryWindow > 0 {
		e.ParryWindow = o.ParryWindow
	}
	if o.Seed != 0 {
		e.Seed = o.Seed
	}
	if o.RedisAddr != "" {
		e.RedisAddr = o.RedisAddr
	}
	if o.MaxTurns > 0 {
		e.MaxTurns = o.MaxTurns
	}
}
