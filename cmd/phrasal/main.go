// Command phrasal trains a collocation model on a line-per-sentence corpus
// and prints the corpus with detected phrases merged. With -passes > 1 the
// detection is applied repeatedly, so phrases longer than two tokens emerge
// (new york times → new_york_times). With -db the detected phrases are also
// persisted to a SQLite database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/phrasal/pkg/phrasal"
	"github.com/cognicore/phrasal/pkg/phrasal/config"
	"github.com/cognicore/phrasal/pkg/phrasal/corpus"
	"github.com/cognicore/phrasal/pkg/phrasal/store"
	"github.com/cognicore/phrasal/pkg/phrasal/store/sqlite"
)

func main() {
	var (
		input       = flag.String("input", "", "corpus file, one sentence per line (required)")
		configPath  = flag.String("config", "", "optional YAML config file")
		minCount    = flag.Int64("min-count", phrasal.DefaultMinCount, "ignore all words and bigrams with total count lower than this")
		threshold   = flag.Float64("threshold", phrasal.DefaultThreshold, "score threshold for forming phrases (higher means fewer phrases)")
		maxVocab    = flag.Int("max-vocab", phrasal.DefaultMaxVocabSize, "prune the vocabulary above this many tracked keys (exact mode)")
		delimiter   = flag.String("delimiter", phrasal.DefaultDelimiter, "glue string joining phrase tokens")
		approximate = flag.Bool("approximate", false, "use count-min sketch counting instead of exact")
		delta       = flag.Float64("delta", phrasal.DefaultDelta, "sketch failure probability, in (0,1)")
		epsilon     = flag.Float64("epsilon", phrasal.DefaultEpsilon, "sketch error bound, in (0,1)")
		passes      = flag.Int("passes", 1, "number of detection passes (2 finds trigrams, etc.)")
		dbPath      = flag.String("db", "", "optional SQLite database to export detected phrases to")
		quiet       = flag.Bool("quiet", false, "suppress the transformed corpus on stdout")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *passes < 1 {
		log.Fatal("passes must be at least 1")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-count":
			cfg.MinCount = *minCount
		case "threshold":
			cfg.Threshold = *threshold
		case "max-vocab":
			cfg.MaxVocabSize = *maxVocab
		case "delimiter":
			cfg.Delimiter = *delimiter
		case "approximate":
			cfg.Approximate = *approximate
		case "delta":
			cfg.Delta = *delta
		case "epsilon":
			cfg.Epsilon = *epsilon
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	opts := cfg.Options()
	opts.Progress = func(sentences, words, keys int) {
		log.Printf("PROGRESS: at sentence #%d, processed %d words and %d word types", sentences, words, keys)
	}

	models, err := trainPasses(*input, opts, *passes)
	if err != nil {
		log.Fatal(err)
	}

	if *dbPath != "" {
		if err := exportPhrases(*input, *dbPath, cfg, models); err != nil {
			log.Fatal(err)
		}
	}

	if !*quiet {
		if err := printTransformed(*input, models); err != nil {
			log.Fatal(err)
		}
	}
}

// trainPasses trains one model per pass, each on the previous models'
// output stream.
func trainPasses(input string, opts phrasal.Options, passes int) ([]*phrasal.Phrases, error) {
	var models []*phrasal.Phrases
	for pass := 1; pass <= passes; pass++ {
		model, err := phrasal.New(opts)
		if err != nil {
			return nil, err
		}

		src, closeSrc, err := openCorpus(input, models)
		if err != nil {
			return nil, err
		}
		log.Printf("pass %d/%d: collecting vocabulary", pass, passes)
		if err := model.AddVocab(src); err != nil {
			closeSrc()
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		closeSrc()

		log.Printf("pass %d/%d: %s", pass, passes, model)
		models = append(models, model)
	}
	return models, nil
}

// openCorpus opens the corpus file and chains it through all trained models.
func openCorpus(input string, models []*phrasal.Phrases) (corpus.Source, func(), error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, nil, err
	}
	var src corpus.Source = corpus.NewLineSource(f)
	for _, m := range models {
		src = m.TransformSource(src)
	}
	return src, func() { f.Close() }, nil
}

func exportPhrases(input, dbPath string, cfg config.Config, models []*phrasal.Phrases) error {
	last := models[len(models)-1]
	src, closeSrc, err := openCorpus(input, models[:len(models)-1])
	if err != nil {
		return err
	}
	defer closeSrc()

	phrases, err := last.ExportPhrases(src)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	runID := store.NewIDGen().NewID(now)
	run := store.Run{
		ID:          runID,
		CreatedAt:   now,
		MinCount:    cfg.MinCount,
		Threshold:   cfg.Threshold,
		Delimiter:   cfg.Delimiter,
		Approximate: cfg.Approximate,
	}
	if err := db.SaveRun(ctx, run); err != nil {
		return err
	}
	for _, p := range phrases {
		phrase := store.Phrase{A: p.A, B: p.B, Joined: p.Joined, Score: p.Score, Count: p.Count}
		if err := db.UpsertPhrase(ctx, runID, phrase); err != nil {
			return err
		}
	}
	log.Printf("exported %d phrases to %s (run %s)", len(phrases), dbPath, runID)
	return nil
}

func printTransformed(input string, models []*phrasal.Phrases) error {
	src, closeSrc, err := openCorpus(input, models)
	if err != nil {
		return err
	}
	defer closeSrc()

	for {
		sentence, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(sentence, " "))
	}
}
