// Package trainingdata reads and writes labeled sequences as JSON Lines,
// one [[text, label], ...] array per line.
package trainingdata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

const maxLineBytes = 16 << 20

// Writer appends sequences to a JSON Lines stream.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter returns a writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one sequence as a line.
func (w *Writer) Write(seq labels.Sequence) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: empty sequence", internalerr.ErrInvalidTrainingData)
	}
	pairs := make([][2]string, len(seq))
	for i, lt := range seq {
		pairs[i] = [2]string{lt.Text, string(lt.Label)}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("encode sequence: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns how many sequences were written.
func (w *Writer) Count() int { return w.count }

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// Read parses every sequence in r. Blank lines, malformed pairs and empty
// sequences are errors naming the offending line.
func Read(r io.Reader) ([]labels.Sequence, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []labels.Sequence
	line := 0
	for sc.Scan() {
		line++
		seq, err := parseLine(sc.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidTrainingData, line, err)
		}
		out = append(out, seq)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read training data: %w", err)
	}
	return out, nil
}

// ReadFile reads a training-data file.
func ReadFile(path string) ([]labels.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func parseLine(data []byte) (labels.Sequence, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("blank line")
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty sequence")
	}
	seq := make(labels.Sequence, len(raw))
	for i, item := range raw {
		var pair []string
		if err := json.Unmarshal(item, &pair); err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("pair %d has %d elements, want 2", i, len(pair))
		}
		if pair[1] == "" {
			return nil, fmt.Errorf("pair %d has an empty label", i)
		}
		seq[i] = labels.LabeledToken{Text: pair[0], Label: labels.Label(pair[1])}
	}
	return seq, nil
}
