package trainingdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/labels"
)

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(labels.Sequence{
		{Text: "Burton", Label: labels.Name},
		{Text: "DeWilde", Label: labels.Name},
	}))
	require.NoError(t, w.Write(labels.Sequence{
		{Text: "\n", Label: labels.FieldSep},
		{Text: "“Go”", Label: labels.Name},
	}))
	require.NoError(t, w.Flush())

	assert.Equal(t, 2, w.Count())
	assert.Equal(t,
		`[["Burton","name"],["DeWilde","name"]]`+"\n"+
			`[["\n","field_sep"],["“Go”","name"]]`+"\n",
		buf.String())
}

func TestWriteRejectsEmpty(t *testing.T) {
	err := NewWriter(&bytes.Buffer{}).Write(nil)
	assert.ErrorIs(t, err, internalerr.ErrInvalidTrainingData)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume-skills-training-data.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := NewWriter(f)
	want := labels.Sequence{
		{Text: "Python", Label: labels.Name},
		{Text: ",", Label: labels.ItemSep},
		{Text: "Go", Label: labels.Name},
	}
	require.NoError(t, w.Write(want))
	require.NoError(t, w.Flush())
	require.NoError(t, f.Close())

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"blank line", "[[\"a\",\"name\"]]\n\n[[\"b\",\"name\"]]\n", "line 2"},
		{"not json", "[[\"a\",\"name\"]]\nnope\n", "line 2"},
		{"short pair", "[[\"a\"]]\n", "line 1"},
		{"empty label", "[[\"a\",\"\"]]\n", "line 1"},
		{"empty sequence", "[]\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, internalerr.ErrInvalidTrainingData)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadEmptyInput(t *testing.T) {
	got, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}
