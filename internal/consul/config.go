package consul

import (
	"fmt"
	"github.com/hashicorp/consul/api"
)

type HealthConfig struct {
	Interval string `kdl:"interval"`
	Timeout  string `kdl:"timeout"`
	Path     string `kdl:"path"`
}

type Config struct {
	Address     string        `kdl:"address"`
	ServiceName string        `kdl:"service-name"`
	Health      *HealthConfig `kdl:"health"`
}

func DefaultConfig(serviceName string) *Config {
	return &Config{
		Address:     "consul:8500",
		ServiceName: serviceName,
		Health: &HealthConfig{
			Interval: "5s",
			Timeout:  "2s",
			Path:     "/api/health",
		},
	}
}

func (c *Config) apiConfig() *api.Config {
	cfg := api.DefaultConfig()
	cfg.Address = c.Address
	return cfg
}

// check builds an HTTP health check against the registered address.
func (c *HealthConfig) check(address string, port int) *api.AgentServiceCheck {
	return &api.AgentServiceCheck{
		HTTP:     fmt.Sprintf("http://%s:%d%s", address, port, c.Path),
		Timeout:  c.Timeout,
		Interval: c.Interval,
		// consul drops the service after it stays critical this long
		DeregisterCriticalServiceAfter: "1m",
	}
}
