package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"askme/internal/corpus"
	"askme/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// namePlaceholder fills first/last name when a generated username has fewer
// than two tokens.
const namePlaceholder = "-"

// emailDomain is appended to generated mailbox names.
const emailDomain = "domen.mail"

// Factory builds unsaved entities from a corpus. It never talks to storage;
// IDs are assigned by the Store.
type Factory struct {
	corpus *corpus.Corpus
	rng    Sampler
	text   TextPolicy
	cost   int
	now    func() time.Time
}

// NewFactory returns a factory sampling c with rng.
func NewFactory(c *corpus.Corpus, rng Sampler, text TextPolicy, fastHash bool) *Factory {
	cost := bcrypt.DefaultCost
	if fastHash {
		cost = bcrypt.MinCost
	}
	return &Factory{
		corpus: c,
		rng:    rng,
		text:   text,
		cost:   cost,
		now:    time.Now,
	}
}

// Text returns n corpus words joined by single spaces.
func (f *Factory) Text(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.word())
	}
	return b.String()
}

func (f *Factory) word() string {
	return f.corpus.Word(f.rng.Intn(f.corpus.WordCount()))
}

func (f *Factory) name() string {
	return f.corpus.Name(f.rng.Intn(f.corpus.NameCount()))
}

func (f *Factory) bodyText() string {
	return f.Text(between(f.rng, f.text.MinTextLen, f.text.MaxTextLen))
}

// MakeUser builds an active, non-staff user whose username is a corpus name
// suffixed with index.
func (f *Factory) MakeUser(index int) (*models.User, error) {
	username := fmt.Sprintf("%s%d", f.name(), index)

	parts := strings.Fields(username)
	for len(parts) < 2 {
		parts = append(parts, namePlaceholder)
	}

	password := f.word() + f.word() + f.word()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), f.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := f.now()
	return &models.User{
		Username:  username,
		FirstName: parts[0],
		LastName:  parts[1],
		Email:     fmt.Sprintf("%s@%s", f.word(), emailDomain),
		Password:  string(hashed),
		IsActive:  true,
		LastLogin: &now,
	}, nil
}

// MakeProfile builds the default profile of u.
func (f *Factory) MakeProfile(u *models.User) *models.Profile {
	return models.NewProfile(u.ID)
}

// MakeQuestion builds a question authored by author.
func (f *Factory) MakeQuestion(author *models.User) *models.Question {
	return &models.Question{
		Title:    f.Text(f.text.TitleLen),
		Text:     f.bodyText(),
		AuthorID: author.ID,
	}
}

// MakeAnswer builds an answer to q. Correctness is a fair coin.
func (f *Factory) MakeAnswer(author *models.User, q *models.Question) *models.Answer {
	return &models.Answer{
		Text:       f.bodyText(),
		Correct:    f.rng.Intn(2) == 1,
		QuestionID: q.ID,
		AuthorID:   author.ID,
	}
}

// MakeTag attaches one random corpus word to q.
func (f *Factory) MakeTag(q *models.Question) *models.Tag {
	return &models.Tag{
		TagName:    truncateRunes(f.word(), models.MaxTagNameLen),
		QuestionID: q.ID,
	}
}

// MakeLike builds a like of q by u.
func (f *Factory) MakeLike(u *models.User, q *models.Question) *models.Like {
	return &models.Like{UserID: u.ID, QuestionID: q.ID}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
