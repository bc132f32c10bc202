package strategy

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"strings"
)

type Type int

const (
	AutoStrategyType Type = iota
	BruteForceStrategyType
	WordlistStrategyType
)

const (
	autoStrategyName       = "auto"
	bruteForceStrategyName = "brute-force"
	wordlistStrategyName   = "wordlist"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

func NewStrategy(strategyType Type) Strategy {
	switch strategyType {
	case BruteForceStrategyType:
		return newBruteForceStrategy(log.Logger)
	case WordlistStrategyType:
		return newWordlistStrategy(log.Logger)
	default:
		return newAutoStrategy(log.Logger)
	}
}

func ParseStrategyName(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case autoStrategyName, "":
		return AutoStrategyType, nil
	case bruteForceStrategyName:
		return BruteForceStrategyType, nil
	case wordlistStrategyName:
		return WordlistStrategyType, nil
	default:
		return AutoStrategyType, errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}
}

func DefaultStrategyStr() string {
	return autoStrategyName
}

func (t Type) String() string {
	switch t {
	case BruteForceStrategyType:
		return bruteForceStrategyName
	case WordlistStrategyType:
		return wordlistStrategyName
	default:
		return autoStrategyName
	}
}
