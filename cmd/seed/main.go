// Command seed fills the database with a synthetic questions-and-answers dataset.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"askme/internal/config"
	"askme/internal/corpus"
	"askme/internal/database"
	"askme/internal/observability"
	"askme/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("seed failed: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	scale := flag.Int("scale", 0, "Divide every quota by this factor (default SEED_SCALE)")
	corpusSource := flag.String("corpus", "", `Corpus source: "api" or "fake" (default api when CORPUS_API_KEY is set)`)
	dryRun := flag.Bool("dry-run", false, "Generate entities without writing them")
	clean := flag.Bool("clean", false, "Delete all questions, answers, tags, likes and users first")
	rngSeed := flag.Int64("rand-seed", 0, "Random seed; 0 uses the clock")
	fastHash := flag.Bool("fast-hash", false, "Hash generated passwords at bcrypt.MinCost")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  cfg.ServiceName + "-seed",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.TracingEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	opts := seed.OptionsFromConfig(cfg)
	if *scale > 0 {
		opts.Quotas.Scale = *scale
	}
	opts.DryRun = *dryRun
	opts.Clean = *clean
	opts.FastHash = opts.FastHash || *fastHash || strings.EqualFold(cfg.Env, "development")

	provider, err := newProvider(cfg, *corpusSource, *rngSeed)
	if err != nil {
		return err
	}

	var store seed.Store
	if opts.DryRun {
		store = seed.NewDryRunStore()
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		store = seed.NewGormStore(db, opts.BatchSize)
	}

	q := opts.Quotas.Scaled()
	log.Printf("seeding users=%d questions=%d answers=%d tags=%d likes=%d dry_run=%t",
		q.Users, q.Questions, q.Answers, q.Tags, q.Likes, opts.DryRun)

	report, err := seed.NewSeeder(store, provider, opts, seed.NewSampler(*rngSeed)).Run(ctx)
	if errors.Is(err, corpus.ErrUnavailable) {
		return fmt.Errorf("corpus service unavailable, try -corpus=fake: %w", err)
	}
	if err != nil {
		// partial counts show how far the run got
		printReport(report)
		return err
	}

	fmt.Println("SUCCESS")
	printReport(report)
	return nil
}

func newProvider(cfg *config.Config, source string, rngSeed int64) (corpus.Provider, error) {
	if source == "" {
		source = "api"
		if cfg.CorpusAPIKey == "" {
			source = "fake"
		}
	}
	switch source {
	case "fake":
		return corpus.NewFakeProvider(rngSeed), nil
	case "api":
		if cfg.CorpusAPIKey == "" {
			return nil, fmt.Errorf("CORPUS_API_KEY is required for -corpus=api")
		}
		retries := cfg.CorpusRetries
		if retries < 1 {
			retries = 1
		}
		return corpus.NewRandommerClient(corpus.ClientConfig{
			BaseURL:  cfg.CorpusAPIURL,
			APIKey:   cfg.CorpusAPIKey,
			Timeout:  time.Duration(cfg.CorpusTimeoutSeconds) * time.Second,
			Attempts: uint(retries),
		}), nil
	default:
		return nil, fmt.Errorf("unknown corpus source %q (want api or fake)", source)
	}
}

func printReport(report *seed.Report) {
	if report == nil {
		return
	}
	out, err := report.YAML()
	if err != nil {
		log.Printf("render report: %v", err)
		return
	}
	fmt.Print(string(out))
}
