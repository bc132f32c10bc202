package config

import (
	"github.com/ykhdr/hashcrack/internal/amqp"
	"github.com/ykhdr/hashcrack/internal/consul"
	"github.com/ykhdr/hashcrack/internal/store/mongo"
	"runtime"
	"time"
)

const ManagerServiceName = "hashcrack-manager"

type DispatcherConfig struct {
	RequestQueueSize int           `kdl:"request-queue-size"`
	DispatchTimeout  time.Duration `kdl:"dispatch-timeout"`
	RequestTimeout   time.Duration `kdl:"request-timeout"`
	Workers          int           `kdl:"workers"`
}

type ManagerConfig struct {
	LogConfig
	ApiServerAddr    string            `kdl:"api-server-addr"`
	Address          string            `kdl:"address"`
	Potfile          string            `kdl:"potfile"`
	DispatcherConfig *DispatcherConfig `kdl:"dispatcher"`
	MongoConfig      *mongo.Config     `kdl:"mongo"`
	ConsulConfig     *consul.Config    `kdl:"consul"`
	// AmqpConfig hands jobs to queue workers instead of cracking them in
	// the manager.
	AmqpConfig *amqp.Config `kdl:"amqp"`
}

func DefaultManagerConfig() *ManagerConfig {
	return &ManagerConfig{
		LogConfig: LogConfig{
			LogLevel:  "info",
			LogOutput: "stdout",
		},
		ApiServerAddr: "0.0.0.0:8080",
		DispatcherConfig: &DispatcherConfig{
			RequestQueueSize: 64,
			DispatchTimeout:  5 * time.Second,
			RequestTimeout:   10 * time.Minute,
		},
	}
}

// InitializeManagerConfig loads the manager config. Mongo, consul and amqp
// stay disabled unless their nodes are present in the file.
func InitializeManagerConfig(args []string) (*ManagerConfig, error) {
	cfg, err := InitializeConfig[ManagerConfig](args, *DefaultManagerConfig())
	if err != nil {
		return nil, err
	}
	if cfg.DispatcherConfig.Workers <= 0 {
		cfg.DispatcherConfig.Workers = runtime.NumCPU()
	}
	clampWorkers(&cfg.DispatcherConfig.Workers)
	if cfg.ConsulConfig != nil && cfg.ConsulConfig.ServiceName == "" {
		cfg.ConsulConfig.ServiceName = ManagerServiceName
	}
	if cfg.AmqpConfig != nil {
		cfg.AmqpConfig.Fill(amqp.DefaultManagerConfig())
	}
	return cfg, nil
}
