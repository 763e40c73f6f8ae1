package service

import (
	"context"
	"errors"
	"testing"

	"askme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
	updateFn         func(context.Context, *models.User) error
	updateProfileFn  func(context.Context, *models.Profile) error
	touchLastLoginFn func(context.Context, uint) error
	setStaffFn       func(context.Context, uint, bool) error
	countFn          func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	return s.updateProfileFn(ctx, profile)
}
func (s *userRepoStub) TouchLastLogin(ctx context.Context, id uint) error {
	return s.touchLastLoginFn(ctx, id)
}
func (s *userRepoStub) SetStaff(ctx context.Context, id uint, staff bool) error {
	return s.setStaffFn(ctx, id, staff)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:        func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:  func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:         func(context.Context, *models.User) error { return nil },
		updateFn:         func(context.Context, *models.User) error { return nil },
		updateProfileFn:  func(context.Context, *models.Profile) error { return nil },
		touchLastLoginFn: func(context.Context, uint) error { return nil },
		setStaffFn:       func(context.Context, uint, bool) error { return nil },
		countFn:          func(context.Context) (int64, error) { return 0, nil },
	}
}

type questionRepoStub struct {
	createFn      func(context.Context, *models.Question, []string) error
	getByIDFn     func(context.Context, uint, uint) (*models.Question, error)
	listFn        func(context.Context, int, int, uint) ([]*models.Question, error)
	countFn       func(context.Context) (int64, error)
	listHotFn     func(context.Context, int, int, int, uint) ([]*models.Question, error)
	countHotFn    func(context.Context, int) (int64, error)
	listTaggedFn  func(context.Context, string, bool, int, int, uint) ([]*models.Question, error)
	countTaggedFn func(context.Context, string, bool) (int64, error)
	likeFn        func(context.Context, uint, uint) (bool, error)
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question, tags []string) error {
	return s.createFn(ctx, q, tags)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id, userID uint) (*models.Question, error) {
	return s.getByIDFn(ctx, id, userID)
}
func (s *questionRepoStub) List(ctx context.Context, limit, offset int, userID uint) ([]*models.Question, error) {
	return s.listFn(ctx, limit, offset, userID)
}
func (s *questionRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *questionRepoStub) ListHot(ctx context.Context, minLikes, limit, offset int, userID uint) ([]*models.Question, error) {
	return s.listHotFn(ctx, minLikes, limit, offset, userID)
}
func (s *questionRepoStub) CountHot(ctx context.Context, minLikes int) (int64, error) {
	return s.countHotFn(ctx, minLikes)
}
func (s *questionRepoStub) ListTagged(ctx context.Context, tag string, first bool, limit, offset int, userID uint) ([]*models.Question, error) {
	return s.listTaggedFn(ctx, tag, first, limit, offset, userID)
}
func (s *questionRepoStub) CountTagged(ctx context.Context, tag string, first bool) (int64, error) {
	return s.countTaggedFn(ctx, tag, first)
}
func (s *questionRepoStub) Like(ctx context.Context, userID, questionID uint) (bool, error) {
	return s.likeFn(ctx, userID, questionID)
}

func noopQuestionRepo() *questionRepoStub {
	none := func() ([]*models.Question, error) { return nil, nil }
	return &questionRepoStub{
		createFn: func(context.Context, *models.Question, []string) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id}, nil
		},
		listFn:        func(context.Context, int, int, uint) ([]*models.Question, error) { return none() },
		countFn:       func(context.Context) (int64, error) { return 0, nil },
		listHotFn:     func(context.Context, int, int, int, uint) ([]*models.Question, error) { return none() },
		countHotFn:    func(context.Context, int) (int64, error) { return 0, nil },
		listTaggedFn:  func(context.Context, string, bool, int, int, uint) ([]*models.Question, error) { return none() },
		countTaggedFn: func(context.Context, string, bool) (int64, error) { return 0, nil },
		likeFn:        func(context.Context, uint, uint) (bool, error) { return true, nil },
	}
}

type answerRepoStub struct {
	createFn          func(context.Context, *models.Answer) error
	getByIDFn         func(context.Context, uint) (*models.Answer, error)
	listByQuestionFn  func(context.Context, uint, int, int) ([]*models.Answer, error)
	countByQuestionFn func(context.Context, uint) (int64, error)
	setCorrectFn      func(context.Context, uint, bool) error
}

func (s *answerRepoStub) Create(ctx context.Context, a *models.Answer) error {
	return s.createFn(ctx, a)
}
func (s *answerRepoStub) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id)
}
func (s *answerRepoStub) ListByQuestion(ctx context.Context, questionID uint, limit, offset int) ([]*models.Answer, error) {
	return s.listByQuestionFn(ctx, questionID, limit, offset)
}
func (s *answerRepoStub) CountByQuestion(ctx context.Context, questionID uint) (int64, error) {
	return s.countByQuestionFn(ctx, questionID)
}
func (s *answerRepoStub) SetCorrect(ctx context.Context, id uint, correct bool) error {
	return s.setCorrectFn(ctx, id, correct)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn:          func(context.Context, *models.Answer) error { return nil },
		getByIDFn:         func(_ context.Context, id uint) (*models.Answer, error) { return &models.Answer{ID: id}, nil },
		listByQuestionFn:  func(context.Context, uint, int, int) ([]*models.Answer, error) { return nil, nil },
		countByQuestionFn: func(context.Context, uint) (int64, error) { return 0, nil },
		setCorrectFn:      func(context.Context, uint, bool) error { return nil },
	}
}

type tagRepoStub struct {
	topFn func(context.Context, int) ([]models.TagCount, error)
}

func (s *tagRepoStub) Top(ctx context.Context, limit int) ([]models.TagCount, error) {
	return s.topFn(ctx, limit)
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "VALIDATION_ERROR")
}

type notifierStub struct {
	added  []*models.Answer
	marked []uint
	err    error
}

func (s *notifierStub) NotifyAnswerAdded(_ context.Context, _ *models.Question, a *models.Answer) error {
	s.added = append(s.added, a)
	return s.err
}

func (s *notifierStub) NotifyAnswerMarked(_ context.Context, _ *models.Answer, markedBy uint) error {
	s.marked = append(s.marked, markedBy)
	return s.err
}
