package destinations

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// TextFileRepository reads destination names from a text file, one per line.
// Blank lines and lines starting with '#' are ignored.
type TextFileRepository struct {
	Path string
}

func NewTextFileRepository(path string) *TextFileRepository {
	return &TextFileRepository{Path: path}
}

func (r *TextFileRepository) ListDestinations(ctx context.Context) ([]string, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("list destinations: open %q: %w", r.Path, err)
	}
	defer f.Close()

	names, err := ReadNames(f)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %q: %w", r.Path, err)
	}
	return names, nil
}

// ReadNames parses one destination name per line.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}

	return names, nil
}
