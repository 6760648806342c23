package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadIndex parses an active function list: one term ID per line, blank
// lines and lines starting with '#' ignored. Only the first field of a
// line is used, so "GO:0003824 catalytic activity" is accepted.
func ReadIndex(r io.Reader) (*Index, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("labels: read function list: %w", err)
	}

	return NewIndex(ids)
}

// ReadIndexFile is ReadIndex on the named file.
func ReadIndexFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	defer f.Close()

	return ReadIndex(f)
}
