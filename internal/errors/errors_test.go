package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "encounter not found",
			expected: "NOT_FOUND: encounter not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "intent has no actor",
			expected: "INVALID_ARGUMENT: intent has no actor",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.FailedPrecondition("actor is dead").
		WithMeta("actor_id", "goblin").
		WithMeta("turn", 4)

	s.Assert().Equal("goblin", err.Meta["actor_id"])
	s.Assert().Equal(4, err.Meta["turn"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to save snapshot")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to save snapshot", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	baseErr := errors.NotFound("snapshot not found")
	wrapped := errors.Wrap(baseErr, "board unavailable")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapContextErrors() {
	s.Assert().Equal(errors.CodeCanceled, errors.Wrap(context.Canceled, "run stopped").Code)
	s.Assert().Equal(errors.CodeDeadlineExceeded, errors.Wrap(context.DeadlineExceeded, "run stopped").Code)
	s.Assert().True(errors.IsCanceled(errors.Wrap(fmt.Errorf("wait: %w", context.Canceled), "run stopped")))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := errors.Internal("boom").WithMeta("k", "v")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeUnavailable, "store unavailable")

	s.Assert().Equal(errors.CodeUnavailable, wrapped.Code)
	s.Assert().Equal("v", wrapped.Meta["k"])
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.Abortedf("stopped after %d turns", 3)
	err2 := errors.Abortedf("stopped after %d turns", 9)
	err3 := errors.InvalidArgument("test")

	s.Assert().True(err1.Is(err2))
	s.Assert().False(err1.Is(err3))
	s.Assert().True(errors.Is(errors.Wrap(err1, "run"), err2))
}

func (s *ErrorsTestSuite) TestHelperFunctions() {
	s.Assert().True(errors.IsNotFound(errors.Wrap(errors.NotFound("x"), "wrapped")))
	s.Assert().True(errors.IsAborted(errors.Abortedf("stopped after %d turns", 3)))
	s.Assert().False(errors.IsInvalidArgument(errors.NotFound("x")))
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.NotFound("user friendly message").WithMeta("key", "value")
	wrapped := errors.Wrap(err, "wrapped message")
	stdErr := fmt.Errorf("standard error")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(stdErr))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))

	s.Assert().Equal("value", wrapped.Meta["key"])

	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(stdErr))
}
