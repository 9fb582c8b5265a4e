package combat

import (
	"log/slog"
	"sync"
)

// Shield charge defaults
const (
	DefaultMaxCharges      = 5
	DefaultDamagePerCharge = 2
)

// ShieldCharges is a bounded counter of charges banked by successful parries
type ShieldCharges struct {
	mu        sync.Mutex
	count     int
	max       int
	perCharge int
}

// NewShieldCharges creates an empty accumulator. Non-positive arguments fall
// back to the defaults.
func NewShieldCharges(maxCharges, damagePerCharge int) *ShieldCharges {
	if maxCharges <= 0 {
		maxCharges = DefaultMaxCharges
	}
	if damagePerCharge <= 0 {
		damagePerCharge = DefaultDamagePerCharge
	}
	return &ShieldCharges{max: maxCharges, perCharge: damagePerCharge}
}

// Add banks n charges, clamped to [0, max]
func (s *ShieldCharges) Add(n int) (before, after int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before = s.count
	s.count = min(max(s.count+n, 0), s.max)
	if s.count != before {
		slog.Debug("Shield charge added", "before", before, "after", s.count)
	}
	return before, s.count
}

// ConsumeForBonus drains every charge and returns count * damage per charge
func (s *ShieldCharges) ConsumeForBonus() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count <= 0 {
		return 0
	}
	bonus := s.count * s.perCharge
	slog.Debug("Shield charges consumed", "charges", s.count, "bonus", bonus)
	s.count = 0
	return bonus
}

// Count returns the banked charges
func (s *ShieldCharges) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Max returns the charge cap
func (s *ShieldCharges) Max() int {
	return s.max
}

// DamagePerCharge returns the bonus granted per consumed charge
func (s *ShieldCharges) DamagePerCharge() int {
	return s.perCharge
}
