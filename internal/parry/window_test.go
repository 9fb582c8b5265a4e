package parry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/parry"
	"github.com/KirkDiggler/rpg-skirmish/internal/pkg/clock"
)

type WindowTestSuite struct {
	suite.Suite
	clock  *clock.Manual
	window *parry.Window
}

func TestWindowSuite(t *testing.T) {
	suite.Run(t, new(WindowTestSuite))
}

func (s *WindowTestSuite) SetupTest() {
	s.clock = clock.NewManual(time.Unix(1000, 0))

	var err error
	s.window, err = parry.NewWindow(&parry.Config{Clock: s.clock})
	s.Require().NoError(err)
}

func (s *WindowTestSuite) TestInactiveBeforeFirstTap() {
	s.False(s.window.IsActiveNow())
	s.Equal(parry.DefaultWindow, s.window.Window())
}

func (s *WindowTestSuite) TestActiveWithinWindow() {
	s.window.RegisterTap()
	s.True(s.window.IsActiveNow())

	s.clock.Advance(180 * time.Millisecond)
	s.True(s.window.IsActiveNow(), "boundary is inclusive")

	s.clock.Advance(time.Millisecond)
	s.False(s.window.IsActiveNow())
}

func (s *WindowTestSuite) TestLatestTapOverwrites() {
	s.window.RegisterTap()
	s.clock.Advance(150 * time.Millisecond)
	s.window.RegisterTap()
	s.clock.Advance(150 * time.Millisecond)

	s.True(s.window.IsActiveNow())
}

func (s *WindowTestSuite) TestCustomWindow() {
	w, err := parry.NewWindow(&parry.Config{Clock: s.clock, Window: 50 * time.Millisecond})
	s.Require().NoError(err)

	w.RegisterTap()
	s.clock.Advance(60 * time.Millisecond)
	s.False(w.IsActiveNow())
}

func (s *WindowTestSuite) TestConfigValidation() {
	_, err := parry.NewWindow(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = parry.NewWindow(&parry.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Clock")

	_, err = parry.NewWindow(&parry.Config{Clock: s.clock, Window: -time.Second})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}
