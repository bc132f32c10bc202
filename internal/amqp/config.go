package amqp

import (
	"github.com/ykhdr/hashcrack/internal/amqp/consumer"
	"github.com/ykhdr/hashcrack/internal/amqp/publisher"
	"time"
)

const (
	TaskQueue   = "hashcrack.tasks"
	ResultQueue = "hashcrack.results"
)

type Config struct {
	URI              string           `kdl:"uri"`
	Username         string           `kdl:"username"`
	Password         string           `kdl:"password"`
	ReconnectTimeout time.Duration    `kdl:"reconnect-timeout"`
	PublisherConfig  *PublisherConfig `kdl:"publisher"`
	ConsumerConfig   *ConsumerConfig  `kdl:"consumer"`
}

func DefaultConfig() *Config {
	return &Config{
		URI:              "amqp://rabbitmq:5672/",
		Username:         "guest",
		Password:         "guest",
		ReconnectTimeout: 5 * time.Second,
		PublisherConfig: &PublisherConfig{
			Exchange:   "",
			RoutingKey: ResultQueue,
		},
		ConsumerConfig: &ConsumerConfig{
			Queue:    TaskQueue,
			Prefetch: 1,
		},
	}
}

// DefaultManagerConfig is the manager side of DefaultConfig: tasks are
// published to the queue workers consume and results are read back.
func DefaultManagerConfig() *Config {
	cfg := DefaultConfig()
	cfg.PublisherConfig.RoutingKey = TaskQueue
	cfg.ConsumerConfig.Queue = ResultQueue
	cfg.ConsumerConfig.Prefetch = 16
	return cfg
}

// Fill sets every empty field of c to its value in defaults.
func (c *Config) Fill(defaults *Config) {
	if c.URI == "" {
		c.URI = defaults.URI
	}
	if c.Username == "" {
		c.Username = defaults.Username
	}
	if c.Password == "" {
		c.Password = defaults.Password
	}
	if c.ReconnectTimeout <= 0 {
		c.ReconnectTimeout = defaults.ReconnectTimeout
	}
	switch {
	case c.PublisherConfig == nil:
		c.PublisherConfig = defaults.PublisherConfig
	case c.PublisherConfig.Exchange == "" && c.PublisherConfig.RoutingKey == "":
		c.PublisherConfig.RoutingKey = defaults.PublisherConfig.RoutingKey
	}
	switch {
	case c.ConsumerConfig == nil:
		c.ConsumerConfig = defaults.ConsumerConfig
	case c.ConsumerConfig.Queue == "":
		c.ConsumerConfig.Queue = defaults.ConsumerConfig.Queue
	}
}

type PublisherConfig struct {
	Exchange   string `kdl:"exchange"`
	RoutingKey string `kdl:"routing-key"`
}

func (p *PublisherConfig) ToPublisherConfig(marshal publisher.Marshal, contentType string) *publisher.Config {
	return &publisher.Config{
		Exchange:    p.Exchange,
		RoutingKey:  p.RoutingKey,
		Marshal:     marshal,
		ContentType: contentType,
	}
}

type ConsumerConfig struct {
	Queue    string `kdl:"queue"`
	Prefetch int    `kdl:"prefetch"`
}

// ToConsumerConfig builds a consumer with manual acknowledgements.
func (c *ConsumerConfig) ToConsumerConfig(unmarshal consumer.Unmarshal, tag string) *consumer.Config {
	return &consumer.Config{
		Unmarshal: unmarshal,
		Queue:     c.Queue,
		Consumer:  tag,
	}
}
