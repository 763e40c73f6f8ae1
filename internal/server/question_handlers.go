package server

import (
	"askme/internal/models"
	"askme/internal/service"

	"github.com/gofiber/fiber/v2"
)

type askRequest struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
}

type answerRequest struct {
	Text string `json:"text"`
}

type correctRequest struct {
	Correct *bool `json:"correct"`
}

// questionListResponse is a listing page plus the top-tags sidebar.
type questionListResponse struct {
	*service.QuestionPage
	TopTags []models.TagCount `json:"top_tags"`
}

func (s *Server) respondWithList(c *fiber.Ctx, page *service.QuestionPage) error {
	top, err := s.questionService.TopTags(c.UserContext(), 0)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questionListResponse{QuestionPage: page, TopTags: top})
}

// ListQuestions handles GET /api/questions
// @Summary Newest questions
// @Tags questions
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} questionListResponse
// @Router /questions [get]
func (s *Server) ListQuestions(c *fiber.Ctx) error {
	page, err := s.questionService.ListNewest(c.UserContext(), parsePage(c), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithList(c, page)
}

// ListHotQuestions handles GET /api/questions/hot
// @Summary Hot questions
// @Description Questions with at least HOT_MIN_LIKES likes, newest first
// @Tags questions
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} questionListResponse
// @Router /questions/hot [get]
func (s *Server) ListHotQuestions(c *fiber.Ctx) error {
	page, err := s.questionService.ListHot(c.UserContext(), parsePage(c), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithList(c, page)
}

// GetQuestion handles GET /api/questions/:id
// @Summary Question with answers
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Param page query int false "1-based answer page number"
// @Success 200 {object} service.QuestionDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [get]
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "question")
	if err != nil {
		return nil
	}
	detail, err := s.questionService.GetQuestion(c.UserContext(), id, parsePage(c), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// AskQuestion handles POST /api/questions
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body askRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Router /questions [post]
func (s *Server) AskQuestion(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.Ask(c.UserContext(), service.AskInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Text:     req.Text,
		Tags:     req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// AddAnswer handles POST /api/questions/:id/answers
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body answerRequest true "Answer"
// @Success 201 {object} models.Answer
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/answers [post]
func (s *Server) AddAnswer(c *fiber.Ctx) error {
	questionID, err := parseID(c, "question")
	if err != nil {
		return nil
	}
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.questionService.AddAnswer(c.UserContext(), service.AnswerInput{
		AuthorID:   currentUserID(c),
		QuestionID: questionID,
		Text:       req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(answer)
}

// SetAnswerCorrect handles POST /api/answers/:id/correct
// @Summary Mark an answer correct
// @Description Only the author of the question may mark its answers. Omitting "correct" marks the answer.
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param request body correctRequest false "Correctness"
// @Success 200 {object} models.Answer
// @Failure 403 {object} models.ErrorResponse
// @Router /answers/{id}/correct [post]
func (s *Server) SetAnswerCorrect(c *fiber.Ctx) error {
	answerID, err := parseID(c, "answer")
	if err != nil {
		return nil
	}
	var req correctRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}
	correct := true
	if req.Correct != nil {
		correct = *req.Correct
	}

	answer, err := s.questionService.SetCorrect(c.UserContext(), service.SetCorrectInput{
		UserID:   currentUserID(c),
		AnswerID: answerID,
		Correct:  correct,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(answer)
}

// LikeQuestion handles POST /api/questions/:id/like
// @Summary Like a question
// @Description Repeated likes by the same user are ignored.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/like [post]
func (s *Server) LikeQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "question")
	if err != nil {
		return nil
	}
	question, err := s.questionService.Like(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}
