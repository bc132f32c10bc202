package config

import (
	"github.com/ykhdr/hashcrack/internal/amqp"
	"github.com/ykhdr/hashcrack/internal/consul"
	"github.com/ykhdr/hashcrack/internal/net"
	"github.com/ykhdr/hashcrack/internal/store/mongo"
	"runtime"
)

const WorkerServiceName = "hashcrack-worker"

type WorkerConfig struct {
	LogConfig
	ServerPort   int            `kdl:"server-port"`
	Address      string         `kdl:"address"`
	Workers      int            `kdl:"workers"`
	Potfile      string         `kdl:"potfile"`
	AmqpConfig   *amqp.Config   `kdl:"amqp"`
	MongoConfig  *mongo.Config  `kdl:"mongo"`
	ConsulConfig *consul.Config `kdl:"consul"`
}

func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		LogConfig: LogConfig{
			LogLevel:  "info",
			LogOutput: "stdout",
		},
		ServerPort: 8080,
		AmqpConfig: amqp.DefaultConfig(),
	}
}

// InitializeWorkerConfig loads the worker config. An empty address is
// replaced by the first IPv4 address of an active interface.
func InitializeWorkerConfig(args []string) (*WorkerConfig, error) {
	cfg, err := InitializeConfig[WorkerConfig](args, *DefaultWorkerConfig())
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	clampWorkers(&cfg.Workers)
	if cfg.ConsulConfig != nil && cfg.ConsulConfig.ServiceName == "" {
		cfg.ConsulConfig.ServiceName = WorkerServiceName
	}
	if cfg.Address == "" {
		addr, err := net.FindAvailableIPv4Addr()
		if err != nil {
			return nil, err
		}
		cfg.Address = addr
	}
	return cfg, nil
}
