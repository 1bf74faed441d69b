package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/series"
)

// DateLayout is the file name layout of a snapshot.
const DateLayout = "2006-01-02"

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// File is one dated snapshot file.
type File struct {
	Name    string // base name, e.g. "2024-03-01"
	Path    string
	Day     int64 // epoch day
	Size    int64
	ModTime time.Time
}

// ParseDate parses a snapshot file name into an epoch day. It reports false
// for names that are not valid YYYY-MM-DD dates.
func ParseDate(name string) (int64, bool) {
	if !dateRegex.MatchString(name) {
		return 0, false
	}
	t, err := time.ParseInLocation(DateLayout, name, time.UTC)
	if err != nil {
		return 0, false
	}
	return series.DayOf(t), true
}

// List returns the snapshot files of dir ordered by date. Entries that are
// not regular files named by a date are ignored.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot directory %s", dir)
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []File
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		day, ok := ParseDate(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, File{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Day:     day,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	slices.SortFunc(files, func(a, b File) int { return int(a.Day - b.Day) })
	return files, nil
}

// Sample picks about target evenly spaced files, always keeping the latest.
// A non-positive target keeps every file.
func Sample(files []File, target int) []File {
	idx := series.SampleIndices(len(files), target)
	out := make([]File, len(idx))
	for i, j := range idx {
		out[i] = files[j]
	}
	return out
}

// Fingerprint identifies the current contents of a snapshot listing. It
// changes whenever a file is added, removed or rewritten.
func Fingerprint(files []File) string {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "%s:%d:%d;", f.Name, f.Size, f.ModTime.UnixNano())
	}
	return b.String()
}
