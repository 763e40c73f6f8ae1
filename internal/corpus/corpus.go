// Package corpus supplies the filler words and full names used to synthesize
// realistic-looking users, questions and answers.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"askme/internal/middleware"
	"askme/internal/observability"
)

// ErrUnavailable is returned when a corpus list cannot be fetched or is unusable.
var ErrUnavailable = errors.New("corpus unavailable")

// Provider fetches raw corpus lists.
type Provider interface {
	// Words returns the whitespace-split tokens of the requested number of paragraphs.
	Words(ctx context.Context, paragraphs int) ([]string, error)
	// Names returns quantity full names.
	Names(ctx context.Context, quantity int) ([]string, error)
}

// Corpus is an immutable snapshot of fetched words and names.
type Corpus struct {
	words []string
	names []string
}

// New builds a Corpus from the given lists. Both must be non-empty.
func New(words, names []string) (*Corpus, error) {
	words = compact(words)
	names = compact(names)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty word list", ErrUnavailable)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty name list", ErrUnavailable)
	}
	return &Corpus{words: words, names: names}, nil
}

// Words returns a copy of the word list.
func (c *Corpus) Words() []string {
	return append([]string(nil), c.words...)
}

// Names returns a copy of the name list.
func (c *Corpus) Names() []string {
	return append([]string(nil), c.names...)
}

// Word returns the i-th word.
func (c *Corpus) Word(i int) string { return c.words[i] }

// Name returns the i-th name.
func (c *Corpus) Name(i int) string { return c.names[i] }

// WordCount is the number of words available for sampling.
func (c *Corpus) WordCount() int { return len(c.words) }

// NameCount is the number of names available for sampling.
func (c *Corpus) NameCount() int { return len(c.names) }

// Fetch pulls both lists from p once. Any provider error or empty list is
// reported as ErrUnavailable.
func Fetch(ctx context.Context, p Provider, paragraphs, names int) (*Corpus, error) {
	source := fmt.Sprintf("%T", p)

	words, err := p.Words(ctx, paragraphs)
	if err != nil {
		observability.CorpusFetches.WithLabelValues(source, "error").Inc()
		return nil, wrapUnavailable("fetch words", err)
	}
	nameList, err := p.Names(ctx, names)
	if err != nil {
		observability.CorpusFetches.WithLabelValues(source, "error").Inc()
		return nil, wrapUnavailable("fetch names", err)
	}

	c, err := New(words, nameList)
	if err != nil {
		observability.CorpusFetches.WithLabelValues(source, "error").Inc()
		return nil, err
	}
	observability.CorpusFetches.WithLabelValues(source, "ok").Inc()
	middleware.Logger.InfoContext(ctx, "corpus fetched",
		slog.String("source", source),
		slog.Int("words", c.WordCount()),
		slog.Int("names", c.NameCount()),
	)
	return c, nil
}

func wrapUnavailable(op string, err error) error {
	if errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Static serves fixed lists. Useful for fixtures and tests.
type Static struct {
	WordList []string
	NameList []string
}

// Words returns the fixed word list.
func (s Static) Words(_ context.Context, _ int) ([]string, error) {
	return s.WordList, nil
}

// Names returns the fixed name list.
func (s Static) Names(_ context.Context, _ int) ([]string, error) {
	return s.NameList, nil
}
