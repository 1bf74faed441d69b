package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/popcon/pkg/errors"
)

var lineRegex = regexp.MustCompile(`^(\S+?),(\d+)`)

// Record is one "<name>,<count>" line of a snapshot.
type Record struct {
	Name  string
	Votes int64
}

// ParseLine parses a snapshot line. Fields after the count are ignored.
// It returns an ErrCodeMalformedLine error for anything else.
func ParseLine(line string) (Record, error) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return Record{}, errors.New(errors.ErrCodeMalformedLine, "malformed record %q", line)
	}
	if err := errors.ValidatePackageName(m[1]); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeMalformedLine, err, "malformed record %q", line)
	}
	votes, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeMalformedLine, err, "vote count %q", m[2])
	}
	return Record{Name: m[1], Votes: votes}, nil
}

// Read parses every line of r. Blank lines are ignored; malformed lines are
// skipped and passed to warn, which may be nil.
func Read(r io.Reader, warn func(format string, args ...any)) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			if warn != nil {
				warn("line %d: %s", n, errors.UserMessage(err))
			}
			continue
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return recs, nil
}

// ReadFile reads the records of a snapshot file.
func ReadFile(path string, warn func(format string, args ...any)) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, func(format string, args ...any) {
		if warn != nil {
			warn("%s: "+format, append([]any{path}, args...)...)
		}
	})
}
