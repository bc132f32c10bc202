package main

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/config"
	"github.com/ykhdr/hashcrack/internal/console"
	"github.com/ykhdr/hashcrack/internal/hashcrack"
	"github.com/ykhdr/hashcrack/internal/potfile"
	"github.com/ykhdr/hashcrack/internal/progress"
	"github.com/ykhdr/hashcrack/internal/wordlist"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

const (
	exitFound    = 0
	exitNotFound = 1
	exitConfig   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.InitializeCrackConfig(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize config")
		return exitConfig
	}
	if err := console.NewPrompter(os.Stdin, os.Stdout).Fill(cfg); err != nil {
		log.Error().Err(err).Msg("failed to read input")
		return exitConfig
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid input")
		return exitConfig
	}
	if cfg.ClampWorkers() {
		log.Warn().Int("workers", cfg.Workers).Msg("worker count limited to the number of cpus")
	}

	opts := []hashcrack.Option{hashcrack.WithWorkers(cfg.Workers)}
	var words []string
	if cfg.Wordlist != "" {
		if words, err = wordlist.Load(cfg.Wordlist); err != nil {
			log.Error().Err(err).Str("path", cfg.Wordlist).Msg("failed to load wordlist")
			return exitConfig
		}
	}
	if cfg.Potfile != "" {
		store, err := potfile.OpenFileStore(expandHome(cfg.Potfile))
		if err != nil {
			log.Error().Err(err).Msg("failed to open potfile")
			return exitConfig
		}
		opts = append(opts, hashcrack.WithPotfile(store))
	}
	var printer *progress.Printer
	if cfg.ShowProgress {
		printer = progress.NewPrinter(os.Stderr)
		opts = append(opts, hashcrack.WithProgress(printer.Report, cfg.ProgressInterval))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	start := time.Now()
	res, err := hashcrack.NewService(opts...).Crack(ctx, &messages.CrackRequest{
		Hash:      cfg.Hash,
		Algorithm: cfg.Algorithm,
		Alphabet:  cfg.Alphabet,
		MinLength: cfg.MinLength,
		MaxLength: cfg.MaxLength,
		Workers:   cfg.Workers,
		Words:     words,
		Strategy:  cfg.Strategy,
	})
	if printer != nil {
		printer.Done()
	}
	switch {
	case errors.Is(err, hashcrack.ErrInvalidRequest):
		log.Error().Err(err).Msg("invalid input")
		return exitConfig
	case err != nil:
		log.Error().Err(err).Msg("search stopped")
		fmt.Println("Password not found.")
	case res.Found:
		fmt.Printf("Found password: %s\n", res.Candidate)
	default:
		fmt.Println("Password not found.")
	}
	fmt.Printf("Time taken: %s\n", time.Since(start))
	if err == nil && res.Found {
		return exitFound
	}
	return exitNotFound
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
