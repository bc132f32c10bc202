package config

import (
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/bruteforce"
	"runtime"
)

var ErrInvalidConfig = errors.New("invalid config")

// CrackConfig configures the hashcrack command. Zero values of Hash,
// Alphabet, MinLength, MaxLength and Workers mean the value is asked for
// on the console.
type CrackConfig struct {
	LogConfig
	Hash             string `kdl:"hash"`
	Algorithm        string `kdl:"algorithm"`
	Alphabet         string `kdl:"alphabet"`
	MinLength        int    `kdl:"min-length"`
	MaxLength        int    `kdl:"max-length"`
	Workers          int    `kdl:"workers"`
	Wordlist         string `kdl:"wordlist"`
	Strategy         string `kdl:"strategy"`
	Potfile          string `kdl:"potfile"`
	ShowProgress     bool   `kdl:"show-progress"`
	ProgressInterval uint64 `kdl:"progress-interval"`
}

func DefaultCrackConfig() *CrackConfig {
	return &CrackConfig{
		LogConfig: LogConfig{
			LogLevel:  "warn",
			LogOutput: "stderr",
		},
		Algorithm:        "auto",
		Strategy:         "auto",
		ShowProgress:     true,
		ProgressInterval: bruteforce.DefaultProgressInterval,
	}
}

func InitializeCrackConfig(args []string) (*CrackConfig, error) {
	return InitializeConfig[CrackConfig](args, *DefaultCrackConfig())
}

func (c *CrackConfig) Validate() error {
	switch {
	case c.Hash == "":
		return errors.Wrap(ErrInvalidConfig, "hash is required")
	case c.Alphabet == "":
		return errors.Wrap(ErrInvalidConfig, "alphabet is required")
	case c.MinLength < 1:
		return errors.Wrapf(ErrInvalidConfig, "min-length %d is below 1", c.MinLength)
	case c.MaxLength < c.MinLength:
		return errors.Wrapf(ErrInvalidConfig, "max-length %d is below min-length %d", c.MaxLength, c.MinLength)
	case c.Workers < 1:
		return errors.Wrapf(ErrInvalidConfig, "workers %d is below 1", c.Workers)
	}
	return nil
}

// ClampWorkers limits Workers to the number of usable CPUs and reports
// whether it had to.
func (c *CrackConfig) ClampWorkers() bool {
	return clampWorkers(&c.Workers)
}

func clampWorkers(workers *int) bool {
	if n := runtime.NumCPU(); *workers > n {
		*workers = n
		return true
	}
	return false
}
