package config

import (
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/kdl"
	"os"
)

const defaultConfigPath = "./config/config.kdl"

// InitializeConfig overlays the KDL file named by args[0] on defaultCfg and
// sets up the global logger from the result. Without arguments the default
// path is used and may be absent.
func InitializeConfig[T any](args []string, defaultCfg T) (*T, error) {
	configPath := defaultConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}
	cfg, err := kdl.Load[T](configPath, defaultCfg)
	if err != nil {
		if len(args) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(err, "load config")
		}
		cfg = defaultCfg
	}
	setupLogger(&cfg)
	return &cfg, nil
}
