package encounters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/repositories/encounters"
)

type InMemoryRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *encounters.InMemoryRepository
}

func TestInMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(InMemoryRepositoryTestSuite))
}

func (s *InMemoryRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = encounters.NewInMemory()
}

func (s *InMemoryRepositoryTestSuite) TestSaveGetAndHistory() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(1, 30)})
	s.Require().NoError(err)
	_, err = s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(2, 24)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Equal(2, out.Snapshot.Turn)
	s.Equal(24, out.Snapshot.Actors[0].HP)

	history, err := s.repo.ListHistory(s.ctx, &encounters.ListHistoryInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Len(history.Snapshots, 2)
}

func (s *InMemoryRepositoryTestSuite) TestReturnsCopies() {
	snap := snapshot(1, 30)
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snap})
	s.Require().NoError(err)

	snap.Actors[0].HP = 1

	out, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Equal(30, out.Snapshot.Actors[0].HP)

	out.Snapshot.Actors[0].HP = 2
	again, err := s.repo.Get(s.ctx, &encounters.GetInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Equal(30, again.Snapshot.Actors[0].HP)
}

func (s *InMemoryRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Delete(s.ctx, &encounters.DeleteInput{EncounterID: testEncounterID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Save(s.ctx, &encounters.SaveInput{Snapshot: snapshot(1, 30)})
	s.Require().NoError(err)
	_, err = s.repo.Delete(s.ctx, &encounters.DeleteInput{EncounterID: testEncounterID})
	s.Require().NoError(err)

	history, err := s.repo.ListHistory(s.ctx, &encounters.ListHistoryInput{EncounterID: testEncounterID})
	s.Require().NoError(err)
	s.Empty(history.Snapshots)
}

func (s *InMemoryRepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Save(s.ctx, &encounters.SaveInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}
