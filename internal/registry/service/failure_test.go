package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"enrolld/internal/registry/models"
	"enrolld/internal/registry/service/mocks"
	"enrolld/internal/sentinel"
	"enrolld/pkg/domain"
	dErrors "enrolld/pkg/domain-errors"
)

// FailureSuite exercises storage error translation using a mocked store.
type FailureSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *mocks.MockSubjectStore
	svc   *Service
}

func (s *FailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockSubjectStore(s.ctrl)
	s.svc = New(s.store)
}

func (s *FailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestFailureSuite(t *testing.T) {
	suite.Run(t, new(FailureSuite))
}

func (s *FailureSuite) TestRegister_PersistFailureIsStorageFailure() {
	s.store.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("write snapshot: disk full: %w", sentinel.ErrUnavailable))

	_, err := s.svc.Register(context.Background(), RegisterInput{
		ID:          "REG-001",
		DisplayName: "Alice Example",
		Credential:  domain.CredentialToken("sample-1"),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeStorageFailure))
}

func (s *FailureSuite) TestRegister_UnexpectedErrorIsInternal() {
	s.store.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))

	_, err := s.svc.Register(context.Background(), RegisterInput{
		ID:          "REG-001",
		DisplayName: "Alice Example",
		Credential:  domain.CredentialToken("sample-1"),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *FailureSuite) TestVerify_LoadFailureIsInternal() {
	s.store.EXPECT().
		FindByID(gomock.Any(), domain.SubjectID("REG-001")).
		Return(nil, errors.New("connection reset"))

	_, err := s.svc.Verify(context.Background(), "REG-001", domain.CredentialToken("sample-1"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *FailureSuite) TestVerify_PersistFailureIsStorageFailure() {
	subject, err := models.NewSubject("REG-001", "Alice Example", domain.CredentialToken("sample-1"), time.Now())
	s.Require().NoError(err)

	s.store.EXPECT().
		FindByID(gomock.Any(), domain.SubjectID("REG-001")).
		Return(subject, nil)
	s.store.EXPECT().
		MarkVerified(gomock.Any(), domain.SubjectID("REG-001"), gomock.Any()).
		Return(fmt.Errorf("replace snapshot: %w", sentinel.ErrUnavailable))

	_, err = s.svc.Verify(context.Background(), "REG-001", domain.CredentialToken("sample-1"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeStorageFailure))
}

func (s *FailureSuite) TestVerify_LostRaceReportsAlreadyVerified() {
	unverified, err := models.NewSubject("REG-001", "Alice Example", domain.CredentialToken("sample-1"), time.Now())
	s.Require().NoError(err)
	flipped := unverified.Clone()
	s.Require().NoError(flipped.MarkVerified(time.Now()))

	// The record flips between the read and the conditional update.
	s.store.EXPECT().
		FindByID(gomock.Any(), domain.SubjectID("REG-001")).
		Return(unverified, nil)
	s.store.EXPECT().
		MarkVerified(gomock.Any(), domain.SubjectID("REG-001"), gomock.Any()).
		Return(sentinel.ErrAlreadyVerified)
	s.store.EXPECT().
		FindByID(gomock.Any(), domain.SubjectID("REG-001")).
		Return(flipped, nil)

	result, err := s.svc.Verify(context.Background(), "REG-001", domain.CredentialToken("sample-1"))
	s.Require().NoError(err)
	s.Equal(models.OutcomeAlreadyVerified, result.Outcome)
	s.True(result.Subject.Verified)
}

func (s *FailureSuite) TestList_FailureIsInternal() {
	s.store.EXPECT().
		List(gomock.Any()).
		Return(nil, errors.New("connection reset"))

	_, err := s.svc.List(context.Background())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
