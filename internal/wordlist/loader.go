package wordlist

import (
	"bufio"
	"bytes"
	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"io"
	"os"
)

const maxLineSize = 1024 * 1024

// Load reads the word list at path, one word per line. The file is memory
// mapped, so large lists are not copied through a read buffer.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open wordlist")
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat wordlist")
	}
	if info.Size() == 0 {
		return []string{}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "mmap wordlist")
	}
	words := split(m)
	if err := m.Unmap(); err != nil {
		return nil, errors.Wrap(err, "unmap wordlist")
	}
	return words, nil
}

// Read reads a word list from r with the same line rules as Load.
func Read(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var words []string
	for sc.Scan() {
		if w := trimLine(sc.Bytes()); len(w) > 0 {
			words = append(words, string(w))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read wordlist")
	}
	return words, nil
}

// split copies every non-empty line out of data.
func split(data []byte) []string {
	words := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		if w := trimLine(line); len(w) > 0 {
			words = append(words, string(w))
		}
	}
	return words
}

func trimLine(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte{'\r'})
}
