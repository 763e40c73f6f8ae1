package corpus

import (
	"context"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// FakeProvider generates an offline corpus with gofakeit. A zero seed picks a random one.
type FakeProvider struct {
	faker *gofakeit.Faker
}

// NewFakeProvider returns a provider whose output is reproducible for a non-zero seed.
func NewFakeProvider(seed int64) *FakeProvider {
	return &FakeProvider{faker: gofakeit.New(seed)}
}

// Words returns the tokens of `paragraphs` lorem-ipsum paragraphs.
func (p *FakeProvider) Words(ctx context.Context, paragraphs int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if paragraphs <= 0 {
		paragraphs = 1
	}
	text := p.faker.LoremIpsumParagraph(paragraphs, 6, 12, "\n")
	return strings.Fields(text), nil
}

// Names returns quantity full names.
func (p *FakeProvider) Names(ctx context.Context, quantity int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 100
	}
	names := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		names = append(names, p.faker.Name())
	}
	return names, nil
}
