package encounters_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-skirmish/internal/testutils"
)

const testEncounterID = "enc_test123"

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	mr      *miniredis.Miniredis
	cleanup func()
	repo    encounters.Repository
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.mr = mr
	s.cleanup = cleanup

	var err error
	s.repo, err = encounters.NewRedisRepository(&encounters.Config{
		Client: client,
		TTL:    10 * time.Minute,
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func snapshot(turn, heroHP int) *encounters.Snapshot {
	return &encounters.Snapshot{
		EncounterID: testEncounterID,
		Turn:        turn,
		ActorID:     "hero",
		Intent:      "[Attack] Hero -> Goblin (6)",
		Outcome:     combat.OutcomeNone.String(),
		Actors: []combat.ActorStatus{
			{ID: "hero", Name: "Hero", Team: "player", HP: heroHP, MaxHP: 30, Charges: 1, MaxCharges: 5},
			{ID: "goblin", Name: "Goblin", Team: "enemy", HP: 6, MaxHP: 12},
		},
		RecordedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(1, 30)})
	s.Require().NoError(err)
	_, err = s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(2, 25)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Equal(snapshot(2, 25), out.Snapshot)

	s.True(s.mr.Exists("encounter:" + testEncounterID + ":board"))
}

func (s *RedisRepositoryTestSuite) TestListHistory() {
	for turn := 1; turn <= 3; turn++ {
		_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(turn, 30-turn)})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListHistory(s.ctx, &encounters.ListHistoryInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Require().Len(out.Snapshots, 3)
	for i, snap := range out.Snapshots {
		s.Equal(i+1, snap.Turn)
	}
}

func (s *RedisRepositoryTestSuite) TestListHistoryEmpty() {
	out, err := s.repo.ListHistory(s.ctx, &encounters.ListHistoryInput{EncounterID: "enc_unknown"})
	s.Require().NoError(err)
	s.Empty(out.Snapshots)
}

func (s *RedisRepositoryTestSuite) TestSnapshotsExpire() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(1, 30)})
	s.Require().NoError(err)

	s.mr.FastForward(11 * time.Minute)

	_, err = s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: testEncounterID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: "enc_unknown"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(1, 30)})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, &encounters.DeleteInput{EncounterID: testEncounterID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: testEncounterID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, &encounters.DeleteInput{EncounterID: testEncounterID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	testCases := []struct {
		name string
		call func() error
	}{
		{"save nil", func() error {
			_, err := s.repo.Save(s.ctx, nil)
			return err
		}},
		{"save missing id", func() error {
			_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: &encounters.Snapshot{}})
			return err
		}},
		{"get missing id", func() error {
			_, err := s.repo.Get(s.ctx, &encounters.GetInput{})
			return err
		}},
		{"history missing id", func() error {
			_, err := s.repo.ListHistory(s.ctx, &encounters.ListHistoryInput{})
			return err
		}},
		{"delete nil", func() error {
			_, err := s.repo.Delete(s.ctx, nil)
			return err
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.True(errors.IsInvalidArgument(tc.call()))
		})
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedisRepositoryValidation() {
	_, err := encounters.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = encounters.NewRedisRepository(&encounters.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Client")
}
