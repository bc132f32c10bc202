package consul

import (
	"fmt"
	"github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Registrar announces a hashcrack process in consul so that load balancers
// and operators can find its HTTP endpoint.
type Registrar interface {
	Register(address string, port int) (string, error)
	Deregister(serviceID string) error
	Healthy(serviceName string) ([]*Service, error)
}

type Service struct {
	ID      string
	Address string
	Port    int
}

func (s *Service) Url() string {
	return fmt.Sprintf("http://%s:%d", s.Address, s.Port)
}

type client struct {
	l      zerolog.Logger
	cfg    *Config
	client *api.Client
}

func NewRegistrar(cfg *Config) (Registrar, error) {
	cl, err := api.NewClient(cfg.apiConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create consul client")
	}
	return &client{
		cfg:    cfg,
		client: cl,
		l: log.With().
			Str("domain", "consul").
			Str("service", cfg.ServiceName).
			Logger(),
	}, nil
}

func (c *client) Register(address string, port int) (string, error) {
	serviceID := fmt.Sprintf("%s-%s:%d", c.cfg.ServiceName, address, port)
	reg := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    c.cfg.ServiceName,
		Address: address,
		Port:    port,
	}
	if c.cfg.Health != nil {
		reg.Check = c.cfg.Health.check(address, port)
	}
	if err := c.client.Agent().ServiceRegister(reg); err != nil {
		return "", errors.Wrap(err, "register service")
	}
	c.l.Info().Str("service-id", serviceID).Msg("service registered")
	return serviceID, nil
}

func (c *client) Deregister(serviceID string) error {
	if err := c.client.Agent().ServiceDeregister(serviceID); err != nil {
		return errors.Wrap(err, "deregister service")
	}
	c.l.Info().Str("service-id", serviceID).Msg("service deregistered")
	return nil
}

func (c *client) Healthy(serviceName string) ([]*Service, error) {
	entries, _, err := c.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list healthy services")
	}
	services := make([]*Service, 0, len(entries))
	for _, e := range entries {
		services = append(services, &Service{
			ID:      e.Service.ID,
			Address: e.Service.Address,
			Port:    e.Service.Port,
		})
	}
	return services, nil
}
