package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one source document: a URL line followed by the body.
type Record struct {
	URL  string
	Body string
}

// ParseRecord reads a source record: the first line is the source URL,
// everything after it is the document body.
func ParseRecord(r io.Reader) (Record, error) {
	br := bufio.NewReader(r)

	url, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read record body: %w", err)
	}

	return Record{
		URL:  strings.TrimSpace(url),
		Body: strings.TrimSpace(string(body)),
	}, nil
}

// Empty reports whether the record is missing its URL or body.
func (r Record) Empty() bool {
	return r.URL == "" || r.Body == ""
}
