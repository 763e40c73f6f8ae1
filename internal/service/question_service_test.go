package service

import (
	"context"
	"errors"
	"testing"

	"askme/internal/featureflags"
	"askme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestionService(q *questionRepoStub, a *answerRepoStub, tags *tagRepoStub, flags string) *QuestionService {
	if tags == nil {
		tags = &tagRepoStub{topFn: func(context.Context, int) ([]models.TagCount, error) { return nil, nil }}
	}
	return NewQuestionService(q, a, tags, featureflags.NewManager(flags), QuestionSettings{
		QuestionsPerPage: 5,
		AnswersPerPage:   5,
		HotMinLikes:      10,
		TopTagsLimit:     20,
	})
}

func TestQuestionService_Ask(t *testing.T) {
	t.Parallel()

	t.Run("normalizes tags", func(t *testing.T) {
		t.Parallel()
		repo := noopQuestionRepo()
		var gotTags []string
		repo.createFn = func(_ context.Context, q *models.Question, tags []string) error {
			q.ID = 11
			gotTags = tags
			return nil
		}
		svc := newQuestionService(repo, noopAnswerRepo(), nil, "")

		q, err := svc.Ask(context.Background(), AskInput{
			AuthorID: 2,
			Title:    "  How to seed?  ",
			Text:     "details",
			Tags:     []string{"go", " go", "gorm", ""},
		})
		require.NoError(t, err)
		assert.Equal(t, uint(11), q.ID)
		assert.Equal(t, "How to seed?", q.Title)
		assert.Equal(t, []string{"go", "gorm"}, gotTags)
	})

	t.Run("too many tags", func(t *testing.T) {
		t.Parallel()
		svc := newQuestionService(noopQuestionRepo(), noopAnswerRepo(), nil, "")
		_, err := svc.Ask(context.Background(), AskInput{
			Title: "t", Text: "x", Tags: []string{"a", "b", "c", "d", "e", "f"},
		})
		assertValidationError(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		svc := newQuestionService(noopQuestionRepo(), noopAnswerRepo(), nil, "")
		_, err := svc.Ask(context.Background(), AskInput{Text: "x"})
		assertValidationError(t, err)
	})
}

func TestQuestionService_ListHot(t *testing.T) {
	t.Parallel()

	repo := noopQuestionRepo()
	repo.countHotFn = func(_ context.Context, minLikes int) (int64, error) {
		assert.Equal(t, 10, minLikes)
		return 12, nil
	}
	var gotLimit, gotOffset int
	repo.listHotFn = func(_ context.Context, minLikes, limit, offset int, _ uint) ([]*models.Question, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Question{{ID: 1}}, nil
	}
	svc := newQuestionService(repo, noopAnswerRepo(), nil, "")

	page, err := svc.ListHot(context.Background(), 9, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.Number, "page past the end lands on the last page")
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)
	assert.Len(t, page.Questions, 1)
}

func TestQuestionService_ListTagged_Flag(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		flags string
		want  bool
	}{
		{flags: "", want: false},
		{flags: featureflags.TagFirstMatchOnly + "=on", want: true},
	} {
		repo := noopQuestionRepo()
		var countFirst, listFirst bool
		repo.countTaggedFn = func(_ context.Context, tag string, first bool) (int64, error) {
			assert.Equal(t, "go", tag)
			countFirst = first
			return 1, nil
		}
		repo.listTaggedFn = func(_ context.Context, _ string, first bool, _, _ int, _ uint) ([]*models.Question, error) {
			listFirst = first
			return nil, nil
		}
		svc := newQuestionService(repo, noopAnswerRepo(), nil, tt.flags)
		_, err := svc.ListTagged(context.Background(), "go", 1, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.want, countFirst, "flags=%q", tt.flags)
		assert.Equal(t, tt.want, listFirst, "flags=%q", tt.flags)
	}

	svc := newQuestionService(noopQuestionRepo(), noopAnswerRepo(), nil, "")
	_, err := svc.ListTagged(context.Background(), "  ", 1, 0)
	assertValidationError(t, err)
}

func TestQuestionService_GetQuestion(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	answers.countByQuestionFn = func(context.Context, uint) (int64, error) { return 8, nil }
	var gotOffset int
	answers.listByQuestionFn = func(_ context.Context, id uint, limit, offset int) ([]*models.Answer, error) {
		gotOffset = offset
		return []*models.Answer{{ID: 6, QuestionID: id}}, nil
	}
	svc := newQuestionService(noopQuestionRepo(), answers, nil, "")

	detail, err := svc.GetQuestion(context.Background(), 4, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(4), detail.Question.ID)
	assert.Equal(t, 2, detail.Page.NumPages)
	assert.Equal(t, 5, gotOffset)

	missing := noopQuestionRepo()
	missing.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return nil, models.NewNotFoundError("Question", id)
	}
	_, err = newQuestionService(missing, answers, nil, "").GetQuestion(context.Background(), 99, 1, 0)
	assertAppError(t, err, "NOT_FOUND")
}

func TestQuestionService_SetCorrect(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id uint) (*models.Answer, error) {
		return &models.Answer{ID: id, Question: &models.Question{ID: 1, AuthorID: 10}}, nil
	}
	var setTo *bool
	answers.setCorrectFn = func(_ context.Context, _ uint, correct bool) error {
		setTo = &correct
		return nil
	}
	svc := newQuestionService(noopQuestionRepo(), answers, nil, "")

	_, err := svc.SetCorrect(context.Background(), SetCorrectInput{UserID: 11, AnswerID: 3, Correct: true})
	assertAppError(t, err, "FORBIDDEN")
	assert.Nil(t, setTo)

	answer, err := svc.SetCorrect(context.Background(), SetCorrectInput{UserID: 10, AnswerID: 3, Correct: true})
	require.NoError(t, err)
	assert.True(t, answer.Correct)
	require.NotNil(t, setTo)
	assert.True(t, *setTo)
}

func TestQuestionService_AddAnswer(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	var created *models.Answer
	answers.createFn = func(_ context.Context, a *models.Answer) error {
		created = a
		return nil
	}
	svc := newQuestionService(noopQuestionRepo(), answers, nil, "")

	_, err := svc.AddAnswer(context.Background(), AnswerInput{AuthorID: 1, QuestionID: 2, Text: " "})
	assertValidationError(t, err)

	_, err = svc.AddAnswer(context.Background(), AnswerInput{AuthorID: 1, QuestionID: 2, Text: "try this"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(2), created.QuestionID)
	assert.False(t, created.Correct)
}

func TestQuestionService_Like(t *testing.T) {
	t.Parallel()

	repo := noopQuestionRepo()
	calls := 0
	repo.likeFn = func(_ context.Context, userID, questionID uint) (bool, error) {
		calls++
		assert.Equal(t, uint(5), userID)
		assert.Equal(t, uint(9), questionID)
		return calls == 1, nil
	}
	svc := newQuestionService(repo, noopAnswerRepo(), nil, "")

	for i := 0; i < 2; i++ {
		q, err := svc.Like(context.Background(), 5, 9)
		require.NoError(t, err)
		assert.Equal(t, uint(9), q.ID)
	}
	assert.Equal(t, 2, calls)
}

func TestQuestionService_TopTags(t *testing.T) {
	t.Parallel()

	var gotLimit int
	tags := &tagRepoStub{topFn: func(_ context.Context, limit int) ([]models.TagCount, error) {
		gotLimit = limit
		return []models.TagCount{{TagName: "go", Count: 3}}, nil
	}}
	svc := newQuestionService(noopQuestionRepo(), noopAnswerRepo(), tags, "")

	_, err := svc.TopTags(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)

	_, err = svc.TopTags(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
}

func TestQuestionService_Notifications(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id uint) (*models.Answer, error) {
		return &models.Answer{ID: id, AuthorID: 4, Question: &models.Question{ID: 1, AuthorID: 10}}, nil
	}
	notifier := &notifierStub{err: errors.New("redis down")}
	svc := newQuestionService(noopQuestionRepo(), answers, nil, "")
	svc.SetNotifier(notifier)

	_, err := svc.AddAnswer(context.Background(), AnswerInput{AuthorID: 4, QuestionID: 1, Text: "use a join"})
	require.NoError(t, err, "notification failures must not fail the write")
	require.Len(t, notifier.added, 1)
	assert.Equal(t, uint(4), notifier.added[0].AuthorID)

	_, err = svc.SetCorrect(context.Background(), SetCorrectInput{UserID: 10, AnswerID: 3, Correct: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, notifier.marked)

	_, err = svc.SetCorrect(context.Background(), SetCorrectInput{UserID: 11, AnswerID: 3, Correct: true})
	assertAppError(t, err, "FORBIDDEN")
	assert.Len(t, notifier.marked, 1)
}
