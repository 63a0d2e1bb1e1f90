package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/vulcan/internal/deck"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []deck.Pair
		wantErr error
	}{
		{
			name:  "standard headers",
			input: "Question,Answer\nCapital of France,Paris\nCapital of Italy,Rome\n",
			want: []deck.Pair{
				{Question: "Capital of France", Answer: "Paris"},
				{Question: "Capital of Italy", Answer: "Rome"},
			},
		},
		{
			name:  "short headers in any order with extra columns",
			input: "notes,A,Q\nx,4,2+2\n",
			want:  []deck.Pair{{Question: "2+2", Answer: "4"}},
		},
		{
			name:  "header whitespace and case",
			input: " QUESTION , Answer \nhola,hello\n",
			want:  []deck.Pair{{Question: "hola", Answer: "hello"}},
		},
		{
			name:  "byte order mark",
			input: "\ufeffquestion,answer\nuno,one\n",
			want:  []deck.Pair{{Question: "uno", Answer: "one"}},
		},
		{
			name:  "quoted commas and trimmed cells",
			input: "question,answer\n\"Name, first\",\"  Ada  \"\n",
			want:  []deck.Pair{{Question: "Name, first", Answer: "Ada"}},
		},
		{
			name:  "blank cells and rows skipped",
			input: "question,answer\n,orphan\nlonely,\n\n,\nreal,pair\n",
			want:  []deck.Pair{{Question: "real", Answer: "pair"}},
		},
		{
			name:  "markup stripped",
			input: "question,answer\n<b>Capital</b> of Spain,<i>Madrid</i>\nTom & Jerry,cartoon\n",
			want: []deck.Pair{
				{Question: "Capital of Spain", Answer: "Madrid"},
				{Question: "Tom & Jerry", Answer: "cartoon"},
			},
		},
		{
			name:    "missing answer column",
			input:   "question,reply\nq,r\n",
			wantErr: ErrNoCards,
		},
		{
			name:    "header only",
			input:   "question,answer\n",
			wantErr: ErrNoCards,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSV(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	data := workbook(t, [][]any{
		{"Question", "Answer"},
		{"Capital of France", "Paris"},
		{"", "skipped"},
		{"Square root of 9", 3},
	})

	got, err := ParseXLSX(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []deck.Pair{
		{Question: "Capital of France", Answer: "Paris"},
		{Question: "Square root of 9", Answer: "3"},
	}, got)
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("question,answer\n"))
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "capitals.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("q,a\nFrance,Paris\n"), 0o644))
	got, err := File(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []deck.Pair{{Question: "France", Answer: "Paris"}}, got)

	xlsxPath := filepath.Join(dir, "capitals.XLSX")
	require.NoError(t, os.WriteFile(xlsxPath, workbook(t, [][]any{{"q", "a"}, {"Italy", "Rome"}}), 0o644))
	got, err = File(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, []deck.Pair{{Question: "Italy", Answer: "Rome"}}, got)

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("q,a\n"), 0o644))
	_, err = File(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	bigPath := filepath.Join(dir, "big.csv")
	require.NoError(t, os.WriteFile(bigPath, bytes.Repeat([]byte("x"), MaxFileSize+1), 0o644))
	_, err = File(bigPath)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = File(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestReader(t *testing.T) {
	got, err := Reader("deck.csv", strings.NewReader("question,answer\na,b\n"))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = Reader("deck.csv", bytes.NewReader(bytes.Repeat([]byte("x"), MaxFileSize+1)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Reader("deck.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
