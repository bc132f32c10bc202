package config

import "github.com/ykhdr/hashcrack/internal/logging"

type LogConfig struct {
	LogLevel  string `kdl:"log-level"`
	LogOutput string `kdl:"log-output"`
}

func (c *LogConfig) GetLogLevel() string {
	return c.LogLevel
}

func (c *LogConfig) GetLogOutput() string {
	return c.LogOutput
}

type hasLogConfig interface {
	GetLogLevel() string
	GetLogOutput() string
}

func setupLogger(cfg any) {
	logCfg, ok := cfg.(hasLogConfig)
	if !ok {
		logging.Setup(logging.InfoLevel, nil)
		return
	}
	logging.Setup(logging.ParseLevel(logCfg.GetLogLevel()), logging.Output(logCfg.GetLogOutput()))
}
