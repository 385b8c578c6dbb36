package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/txparse/internal/classifier"
	"github.com/cleared-dev/txparse/internal/config"
	"github.com/cleared-dev/txparse/internal/logger"
	"github.com/cleared-dev/txparse/internal/receipt"
	"github.com/cleared-dev/txparse/internal/taxonomy"
	"github.com/cleared-dev/txparse/internal/voice"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

// app is everything a subcommand needs, built from config.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	tax     *taxonomy.Taxonomy
	voice   *voice.Parser
	receipt *receipt.Parser
}

func newApp(opts *globalOptions) (*app, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	tax, err := taxonomy.LoadOrDefault(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	cls := classifier.New(tax,
		classifier.WithThresholds(cfg.Classifier.MatchThreshold, cfg.Classifier.AcceptThreshold),
		classifier.WithLogger(log),
	)
	return &app{
		cfg:   cfg,
		log:   log,
		tax:   tax,
		voice: voice.NewParser(cls, voice.WithLogger(log)),
		receipt: receipt.NewParser(tax,
			receipt.WithLogger(log),
			receipt.WithMaxAmount(cfg.Receipt.MaxAmount),
			receipt.WithHeader(cfg.Receipt.HeaderTokens, cfg.Receipt.LineGap),
		),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
