package sniff

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledgersort/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/charset"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		expected rune
	}{
		{"Comma", "date,description,amount\n2024-01-01,coffee,4.50\n", ','},
		{"Semicolon", "date;description;amount\n2024-01-01;coffee;4.50\n", ';'},
		{"Tab", "date\tdescription\tamount\n2024-01-01\tcoffee\t4.50\n", '\t'},
		{"Pipe", "date|description|amount\n2024-01-01|coffee|4.50\n", '|'},
		{"Single line defaults to comma", "date;description;amount", ','},
		{"Inconsistent counts default to comma", "a;b;c\nx;y\n", ','},
		{"No candidate defaults to comma", "alpha\nbeta\ngamma\n", ','},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Detect([]byte(tc.sample), "", logging.NewMockLogger())
			assert.Equal(t, tc.expected, result.Delimiter)
		})
	}
}

func TestDetectIgnoresTruncatedTrailingLine(t *testing.T) {
	// The sample cuts off mid-row; the partial row must not break the
	// consistency check.
	sample := "date;description;amount\n2024-01-01;coffee;4.50\n2024-01-02;gro"
	result := Detect([]byte(sample), "", logging.NewMockLogger())
	assert.Equal(t, ';', result.Delimiter)
}

func TestDetectEncodingWithBOM(t *testing.T) {
	sample := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	result := Detect(sample, "", logging.NewMockLogger())
	assert.Equal(t, "utf-8", result.EncodingName)
}

func TestDetectFallsBackToConfiguredEncoding(t *testing.T) {
	// Plain ASCII gives no confident statistical answer, so the configured
	// default wins.
	result := Detect([]byte("a,b\n1,2\n"), "windows-1252", logging.NewMockLogger())
	assert.Equal(t, "windows-1252", result.EncodingName)
}

func TestDecodeReader(t *testing.T) {
	enc, _ := charset.Lookup("windows-1252")
	require.NotNil(t, enc)

	// 0xE9 is é in windows-1252.
	raw := []byte{'c', 'a', 'f', 0xE9}
	decoded, err := io.ReadAll(DecodeReader(strings.NewReader(string(raw)), enc))
	require.NoError(t, err)
	assert.Equal(t, "café", string(decoded))

	// A nil encoding passes bytes through.
	passthrough, err := io.ReadAll(DecodeReader(strings.NewReader("abc"), nil))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(passthrough))
}

func TestDetectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("date;desc;amount\n2024-01-01;x;1\n"), 0o600))

	result, err := DetectFile(path, "utf-8", logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, ';', result.Delimiter)

	_, err = DetectFile(filepath.Join(t.TempDir(), "missing.csv"), "utf-8", logging.NewMockLogger())
	assert.Error(t, err)
}
