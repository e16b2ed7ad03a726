package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadFrame(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		rows    int
	}{
		{
			name:    "valid file",
			content: "a,b,c\n1,2,3\n4,5,6\n",
			rows:    2,
		},
		{
			name:    "header only",
			content: "a,b,c\n",
			wantErr: common.ErrDataLoad,
		},
		{
			name:    "ragged row",
			content: "a,b,c\n1,2,3\n4,5\n",
			wantErr: common.ErrDataLoad,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: common.ErrDataLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := ReadFrame(writeFile(t, tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, frame.Rows, tt.rows)
			assert.Equal(t, []string{"a", "b", "c"}, frame.Columns)
		})
	}
}

func TestReadFrame_MissingFile(t *testing.T) {
	_, err := ReadFrame(filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, common.ErrDataLoad)
}

func TestFrame_Drop(t *testing.T) {
	frame := &Frame{
		Columns: []string{"a", "zip", "b", "zip2"},
		Rows:    [][]string{{"1", "x", "2", "y"}, {"3", "z", "4", "w"}},
	}

	dropped := frame.Drop("zip", "zip2")
	require.Equal(t, []string{"a", "b"}, dropped.Columns)
	require.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, dropped.Rows)

	// Dropping again has no further effect.
	again := dropped.Drop("zip", "zip2")
	assert.Equal(t, dropped.Columns, again.Columns)
	assert.Equal(t, dropped.Rows, again.Rows)

	// Order independence.
	reversed := frame.Drop("zip2", "zip")
	assert.Equal(t, dropped.Columns, reversed.Columns)
	assert.Equal(t, dropped.Rows, reversed.Rows)
}

func TestFrame_Require(t *testing.T) {
	frame := &Frame{Columns: []string{"a", "b"}}

	require.NoError(t, frame.Require("a", "b"))

	err := frame.Require("a", "missing")
	require.ErrorIs(t, err, common.ErrSchema)
	assert.Contains(t, err.Error(), "missing")
}

func TestFrame_IsNumeric(t *testing.T) {
	frame := &Frame{
		Columns: []string{"amount", "category", "step"},
		Rows: [][]string{
			{"12.5", "'es_travel'", "1"},
			{"3", "'es_health'", "2"},
		},
	}

	assert.True(t, frame.IsNumeric("amount"))
	assert.True(t, frame.IsNumeric("step"))
	assert.False(t, frame.IsNumeric("category"))
	assert.False(t, frame.IsNumeric("missing"))
}
