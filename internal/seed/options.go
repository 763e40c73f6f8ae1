package seed

import (
	"askme/internal/config"
)

// Quotas are the base totals per entity kind. Scale divides all of them.
type Quotas struct {
	Scale     int `yaml:"scale"`
	Users     int `yaml:"users"`
	Questions int `yaml:"questions"`
	Answers   int `yaml:"answers"`
	Tags      int `yaml:"tags"`
	Likes     int `yaml:"likes"`
}

// DefaultQuotas mirrors the full-size dataset divided by 100.
func DefaultQuotas() Quotas {
	return Quotas{
		Scale:     100,
		Users:     10000,
		Questions: 100000,
		Answers:   1000000,
		Tags:      200000,
		Likes:     2000000,
	}
}

// Scaled returns the effective totals. A Scale below 1 is treated as 1.
func (q Quotas) Scaled() Quotas {
	scale := q.Scale
	if scale < 1 {
		scale = 1
	}
	return Quotas{
		Scale:     1,
		Users:     q.Users / scale,
		Questions: q.Questions / scale,
		Answers:   q.Answers / scale,
		Tags:      q.Tags / scale,
		Likes:     q.Likes / scale,
	}
}

// Limits caps how many children a single batch attaches to one question.
type Limits struct {
	MaxAnswers int `yaml:"max_answers"`
	MaxTags    int `yaml:"max_tags"`
	MaxLikes   int `yaml:"max_likes"`
}

// DefaultLimits returns 5 answers, 5 tags and 40 likes per batch.
func DefaultLimits() Limits {
	return Limits{MaxAnswers: 5, MaxTags: 5, MaxLikes: 40}
}

// TextPolicy controls generated title and body lengths, in words.
type TextPolicy struct {
	TitleLen   int `yaml:"title_len"`
	MinTextLen int `yaml:"min_text_len"`
	MaxTextLen int `yaml:"max_text_len"`
}

// DefaultTextPolicy returns 10-word titles and 20 to 100 word bodies.
func DefaultTextPolicy() TextPolicy {
	return TextPolicy{TitleLen: 10, MinTextLen: 20, MaxTextLen: 100}
}

// SeedOptions configures one seeding run.
type SeedOptions struct {
	Quotas Quotas
	Limits Limits
	Text   TextPolicy

	// CorpusParagraphs and CorpusNames size the corpus fetch.
	CorpusParagraphs int
	CorpusNames      int

	AllowDuplicateLikes bool
	// FastHash hashes generated passwords at bcrypt.MinCost.
	FastHash bool
	DryRun   bool
	// Clean truncates every domain table before seeding.
	Clean     bool
	BatchSize int
	// MaxIterations bounds each allocation; zero picks DefaultMaxIterations.
	MaxIterations int
}

// DefaultOptions returns the stock dataset shape.
func DefaultOptions() SeedOptions {
	return SeedOptions{
		Quotas:           DefaultQuotas(),
		Limits:           DefaultLimits(),
		Text:             DefaultTextPolicy(),
		CorpusParagraphs: 1,
		CorpusNames:      100,
		BatchSize:        500,
	}
}

// OptionsFromConfig builds SeedOptions from the SEED_* and CORPUS_* keys.
func OptionsFromConfig(cfg *config.Config) SeedOptions {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.Quotas = Quotas{
		Scale:     cfg.SeedScale,
		Users:     cfg.SeedUsers,
		Questions: cfg.SeedQuestions,
		Answers:   cfg.SeedAnswers,
		Tags:      cfg.SeedTags,
		Likes:     cfg.SeedLikes,
	}
	opts.Limits = Limits{
		MaxAnswers: cfg.SeedMaxAnswers,
		MaxTags:    cfg.SeedMaxTags,
		MaxLikes:   cfg.SeedMaxLikes,
	}
	opts.Text = TextPolicy{
		TitleLen:   cfg.SeedTitleLen,
		MinTextLen: cfg.SeedMinTextLen,
		MaxTextLen: cfg.SeedMaxTextLen,
	}
	if cfg.CorpusParagraphs > 0 {
		opts.CorpusParagraphs = cfg.CorpusParagraphs
	}
	if cfg.CorpusNames > 0 {
		opts.CorpusNames = cfg.CorpusNames
	}
	opts.AllowDuplicateLikes = cfg.SeedAllowDuplicateLikes
	opts.FastHash = cfg.SeedFastHash
	if cfg.SeedBatchSize > 0 {
		opts.BatchSize = cfg.SeedBatchSize
	}
	return opts
}
