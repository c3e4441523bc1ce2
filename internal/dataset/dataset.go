// Package dataset records analyzed shapes as labeled examples for offline
// calibration of the vision pipeline.
package dataset

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"shapecaptcha/internal/shape"
)

// Record is one labeled example, stored as a single JSON line.
type Record struct {
	Image string `json:"image"`
	Meta  Meta   `json:"meta"`
	Label Label  `json:"label"`
}

// Meta is the context the shape was shown in.
type Meta struct {
	Instruction string `json:"instruction"`
}

// Label is what the pipeline detected.
type Label struct {
	Type     shape.Label `json:"type"`
	Area     float64     `json:"area"`
	Vertices int         `json:"vertices"`
}

// NewRecord builds the record for one analyzed shape.
func NewRecord(b64 string, d shape.Descriptor, instruction string) Record {
	return Record{
		Image: b64,
		Meta:  Meta{Instruction: instruction},
		Label: Label{Type: d.Type, Area: d.Area, Vertices: d.Vertices},
	}
}

// Sink receives every analyzed shape.
type Sink interface {
	Save(b64 string, d shape.Descriptor, instruction string) error
}

// Nop discards everything.
type Nop struct{}

// Save implements Sink.
func (Nop) Save(string, shape.Descriptor, string) error { return nil }

// FileSink appends records to a JSONL file. Safe for concurrent use.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink returns a sink appending to path. The file and its directory
// are created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the file records are appended to.
func (s *FileSink) Path() string {
	return s.path
}

// Save implements Sink.
func (s *FileSink) Save(b64 string, d shape.Descriptor, instruction string) error {
	line, err := json.Marshal(NewRecord(b64, d, instruction))
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create dataset directory %s", dir)
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open dataset %s", s.path)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return errors.Wrapf(err, "append to dataset %s", s.path)
	}
	return errors.Wrapf(f.Close(), "close dataset %s", s.path)
}

// Read parses a JSONL stream of records. Blank lines are skipped.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return records, errors.Wrapf(err, "line %d", line)
		}
		records = append(records, rec)
	}
	return records, errors.Wrap(sc.Err(), "read dataset")
}

// Load reads every record in a JSONL file.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Stats summarizes a dataset by detected type.
type Stats struct {
	Total  int                 `json:"total"`
	ByType map[shape.Label]int `json:"by_type"`
}

// Summarize counts records per detected type.
func Summarize(records []Record) Stats {
	st := Stats{Total: len(records), ByType: make(map[shape.Label]int)}
	for _, r := range records {
		st.ByType[r.Label.Type]++
	}
	return st
}
