package kdl

import (
	"github.com/pkg/errors"
	"github.com/sblinch/kdl-go"
	"os"
)

// Load decodes the KDL document at path over defaults.
func Load[T any](path string, defaults T) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, errors.Wrapf(err, "read %s", path)
	}
	return Decode(data, defaults)
}

// Decode unmarshals data into a copy of defaults, so nodes missing from the
// document keep their default values.
func Decode[T any](data []byte, defaults T) (T, error) {
	cfg := defaults
	if err := kdl.Unmarshal(data, &cfg); err != nil {
		return defaults, errors.Wrap(err, "unmarshal kdl")
	}
	return cfg, nil
}
