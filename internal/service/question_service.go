package service

import (
	"context"
	"strings"

	"askme/internal/cache"
	"askme/internal/featureflags"
	"askme/internal/models"
	"askme/internal/observability"
	"askme/internal/repository"
	"askme/internal/validation"
)

// QuestionSettings are the listing knobs read from configuration.
type QuestionSettings struct {
	QuestionsPerPage int
	AnswersPerPage   int
	HotMinLikes      int
	TopTagsLimit     int
}

// DefaultQuestionSettings mirrors the configuration defaults.
func DefaultQuestionSettings() QuestionSettings {
	return QuestionSettings{QuestionsPerPage: 5, AnswersPerPage: 5, HotMinLikes: 10, TopTagsLimit: 20}
}

// AnswerNotifier delivers answer activity to the affected users.
type AnswerNotifier interface {
	NotifyAnswerAdded(ctx context.Context, question *models.Question, answer *models.Answer) error
	NotifyAnswerMarked(ctx context.Context, answer *models.Answer, markedBy uint) error
}

type QuestionService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	tags      repository.TagRepository
	flags     *featureflags.Manager
	notifier  AnswerNotifier
	settings  QuestionSettings
}

// QuestionPage is one page of questions.
type QuestionPage struct {
	Questions []*models.Question `json:"questions"`
	Page      Page               `json:"page"`
}

// QuestionDetail is a question with one page of its answers.
type QuestionDetail struct {
	Question *models.Question `json:"question"`
	Answers  []*models.Answer `json:"answers"`
	Page     Page             `json:"page"`
}

type AskInput struct {
	AuthorID uint
	Title    string
	Text     string
	Tags     []string
}

type AnswerInput struct {
	AuthorID   uint
	QuestionID uint
	Text       string
}

type SetCorrectInput struct {
	UserID   uint
	AnswerID uint
	Correct  bool
}

func NewQuestionService(
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	tags repository.TagRepository,
	flags *featureflags.Manager,
	settings QuestionSettings,
) *QuestionService {
	defaults := DefaultQuestionSettings()
	if settings.QuestionsPerPage <= 0 {
		settings.QuestionsPerPage = defaults.QuestionsPerPage
	}
	if settings.AnswersPerPage <= 0 {
		settings.AnswersPerPage = defaults.AnswersPerPage
	}
	if settings.TopTagsLimit <= 0 {
		settings.TopTagsLimit = defaults.TopTagsLimit
	}
	return &QuestionService{
		questions: questions,
		answers:   answers,
		tags:      tags,
		flags:     flags,
		settings:  settings,
	}
}

// SetNotifier enables answer notifications. A nil notifier disables them.
func (s *QuestionService) SetNotifier(n AnswerNotifier) {
	s.notifier = n
}

// ListNewest returns the newest questions first.
func (s *QuestionService) ListNewest(ctx context.Context, pageNumber int, currentUserID uint) (*QuestionPage, error) {
	total, err := s.questions.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := NewPage(pageNumber, total, s.settings.QuestionsPerPage)
	questions, err := s.questions.List(ctx, page.PerPage, page.Offset(), currentUserID)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Questions: questions, Page: page}, nil
}

// ListHot returns questions with at least HotMinLikes likes. Anonymous pages
// are served from the cache.
func (s *QuestionService) ListHot(ctx context.Context, pageNumber int, currentUserID uint) (*QuestionPage, error) {
	ctx, span := observability.GetTraceLayer().TraceServiceToRepository(ctx, "questions", "ListHot")
	defer span.End()

	minLikes := s.settings.HotMinLikes
	fetch := func(out *QuestionPage) error {
		total, err := s.questions.CountHot(ctx, minLikes)
		if err != nil {
			return err
		}
		page := NewPage(pageNumber, total, s.settings.QuestionsPerPage)
		questions, err := s.questions.ListHot(ctx, minLikes, page.PerPage, page.Offset(), currentUserID)
		if err != nil {
			return err
		}
		out.Questions, out.Page = questions, page
		return nil
	}

	var out QuestionPage
	if currentUserID != 0 {
		if err := fetch(&out); err != nil {
			return nil, err
		}
		return &out, nil
	}
	key := cache.HotPageKey(minLikes, pageNumber, s.settings.QuestionsPerPage)
	if err := cache.Aside(ctx, "hot", key, &out, cache.HotTTL, func() error { return fetch(&out) }); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTagged returns questions carrying tagName. The tag_first_match_only flag
// narrows the result to the question of the oldest matching tag row.
func (s *QuestionService) ListTagged(ctx context.Context, tagName string, pageNumber int, currentUserID uint) (*QuestionPage, error) {
	if strings.TrimSpace(tagName) == "" {
		return nil, models.NewValidationError("Tag name is required")
	}
	firstOnly := s.flags.Enabled(featureflags.TagFirstMatchOnly, currentUserID)

	total, err := s.questions.CountTagged(ctx, tagName, firstOnly)
	if err != nil {
		return nil, err
	}
	page := NewPage(pageNumber, total, s.settings.QuestionsPerPage)
	questions, err := s.questions.ListTagged(ctx, tagName, firstOnly, page.PerPage, page.Offset(), currentUserID)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Questions: questions, Page: page}, nil
}

// GetQuestion returns the question and one page of answers, correct ones first.
func (s *QuestionService) GetQuestion(ctx context.Context, id uint, answerPage int, currentUserID uint) (*QuestionDetail, error) {
	question, err := s.questions.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	total, err := s.answers.CountByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	page := NewPage(answerPage, total, s.settings.AnswersPerPage)
	answers, err := s.answers.ListByQuestion(ctx, id, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	return &QuestionDetail{Question: question, Answers: answers, Page: page}, nil
}

func (s *QuestionService) Ask(ctx context.Context, in AskInput) (*models.Question, error) {
	if err := validation.ValidateQuestion(in.Title, in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	question := &models.Question{
		Title:    strings.TrimSpace(in.Title),
		Text:     in.Text,
		AuthorID: in.AuthorID,
	}
	if err := s.questions.Create(ctx, question, tags); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) AddAnswer(ctx context.Context, in AnswerInput) (*models.Answer, error) {
	if err := validation.ValidateAnswer(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	question, err := s.questions.GetByID(ctx, in.QuestionID, 0)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		Text:       in.Text,
		QuestionID: in.QuestionID,
		AuthorID:   in.AuthorID,
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyAnswerAdded(ctx, question, answer); err != nil {
			observability.LogAsyncOperationError(ctx, "notify.answer_added", err,
				map[string]interface{}{"answer_id": answer.ID})
		}
	}
	return answer, nil
}

// SetCorrect marks or unmarks an answer. Only the question author may do it.
func (s *QuestionService) SetCorrect(ctx context.Context, in SetCorrectInput) (*models.Answer, error) {
	answer, err := s.answers.GetByID(ctx, in.AnswerID)
	if err != nil {
		return nil, err
	}
	if answer.Question == nil || answer.Question.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the question author can mark answers")
	}
	if err := s.answers.SetCorrect(ctx, answer.ID, in.Correct); err != nil {
		return nil, err
	}
	answer.Correct = in.Correct
	if s.notifier != nil {
		if err := s.notifier.NotifyAnswerMarked(ctx, answer, in.UserID); err != nil {
			observability.LogAsyncOperationError(ctx, "notify.answer_marked", err,
				map[string]interface{}{"answer_id": answer.ID})
		}
	}
	return answer, nil
}

// Like records the user's like once and returns the refreshed question.
func (s *QuestionService) Like(ctx context.Context, userID, questionID uint) (*models.Question, error) {
	if _, err := s.questions.GetByID(ctx, questionID, userID); err != nil {
		return nil, err
	}
	if _, err := s.questions.Like(ctx, userID, questionID); err != nil {
		return nil, err
	}
	return s.questions.GetByID(ctx, questionID, userID)
}

// TopTags returns the most used tags. A non-positive limit uses TopTagsLimit.
func (s *QuestionService) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	if limit <= 0 {
		limit = s.settings.TopTagsLimit
	}
	const maxLimit = 100
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.tags.Top(ctx, limit)
}
