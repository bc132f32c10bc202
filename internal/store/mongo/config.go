package mongo

import "time"

type Config struct {
	URI            string        `kdl:"uri"`
	Username       string        `kdl:"username"`
	Password       string        `kdl:"password"`
	Database       string        `kdl:"database"`
	ConnectTimeout time.Duration `kdl:"connect-timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		URI:            "mongodb://mongo:27017",
		Database:       "hashcrack",
		ConnectTimeout: 10 * time.Second,
	}
}
