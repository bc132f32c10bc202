// Package console asks for the search parameters missing from the config.
package console

import (
	"bufio"
	"fmt"
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/config"
	"io"
	"strconv"
	"strings"
)

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Fill prompts for every required value of cfg that is still zero, in the
// order hash, character set, minimum length, maximum length, threads.
func (p *Prompter) Fill(cfg *config.CrackConfig) error {
	var err error
	if cfg.Hash == "" {
		if cfg.Hash, err = p.String("Enter the target hash:"); err != nil {
			return err
		}
	}
	if cfg.Alphabet == "" {
		if cfg.Alphabet, err = p.String("Enter the character set (e.g., abcdefghijklmnopqrstuvwxyz):"); err != nil {
			return err
		}
	}
	if cfg.MinLength == 0 {
		if cfg.MinLength, err = p.Int("Enter minimum password length:"); err != nil {
			return err
		}
	}
	if cfg.MaxLength == 0 {
		if cfg.MaxLength, err = p.Int("Enter maximum password length:"); err != nil {
			return err
		}
	}
	if cfg.Workers == 0 {
		if cfg.Workers, err = p.Int("Enter number of threads:"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prompter) String(question string) (string, error) {
	if _, err := fmt.Fprintln(p.out, question); err != nil {
		return "", errors.Wrap(err, "write prompt")
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrapf(err, "read answer to %q", question)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) Int(question string) (int, error) {
	answer, err := p.String(question)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, errors.Wrapf(config.ErrInvalidConfig, "%q is not a number", answer)
	}
	return n, nil
}
