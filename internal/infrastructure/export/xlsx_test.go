package export

import (
	"bytes"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, Sheet{
		Name:    "Vendors",
		Headers: []string{"Name", "Email", "Status"},
		Rows: [][]string{
			{"Kings", "ops@kings.ac.uk", "Published"},
			{"Queens", "", "Draft"},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Vendors"}, f.GetSheetList())
	rows, err := f.GetRows("Vendors")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Email", "Status"}, rows[0])
	assert.Equal(t, []string{"Kings", "ops@kings.ac.uk", "Published"}, rows[1])
	assert.Equal(t, "Draft", rows[2][2])
}

func TestWriteXLSXTruncatesSheetName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Sheet{
		Name:    "Certifications and other very long names",
		Headers: []string{"Name"},
	}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList()[0], 31)
}

func TestWriteXLSXTruncatesMultibyteSheetName(t *testing.T) {
	name := "Überweisungsempfänger für Außenstellen"
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Sheet{
		Name:    name,
		Headers: []string{"Name"},
		Rows:    [][]string{{"Kings"}},
	}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got := f.GetSheetList()[0]
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 31, utf8.RuneCountInString(got))
	assert.Equal(t, string([]rune(name)[:31]), got)
	rows, err := f.GetRows(got)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name"}, {"Kings"}}, rows)
}
