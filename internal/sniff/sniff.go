// Package sniff detects the character encoding and field delimiter of
// delimited text files from a small byte sample.
//
// Detection is deliberately permissive: it never fails. When the statistical
// encoding guess is not confident it degrades to the configured default
// encoding, and when delimiter sniffing is ambiguous it degrades to comma.
// Malformed input should degrade, not abort the whole import.
package sniff

import (
	"bufio"
	"io"
	"os"
	"strings"

	"ledgersort/internal/logging"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// SampleSize is the number of leading bytes inspected for detection.
const SampleSize = 1000

// DefaultDelimiter is used when sniffing cannot settle on a delimiter.
const DefaultDelimiter = ','

// candidateDelimiters are tried in order of preference.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Result holds the detected encoding and delimiter for a delimited text file.
type Result struct {
	Encoding     encoding.Encoding
	EncodingName string
	Delimiter    rune
}

// Detect inspects a byte sample and returns a best-guess encoding and
// delimiter. It always returns a usable Result.
func Detect(sample []byte, defaultEncoding string, logger logging.Logger) Result {
	if logger == nil {
		logger = logging.GetLogger()
	}

	enc, name := detectEncoding(sample, defaultEncoding, logger)

	// Decode the sample before sniffing so multi-byte encodings do not skew
	// the per-line delimiter counts.
	decoded := sample
	if enc != nil {
		if out, _, err := transform.Bytes(enc.NewDecoder(), sample); err == nil {
			decoded = out
		}
	}

	delim, ok := detectDelimiter(string(decoded))
	if !ok {
		logger.Debug("Delimiter sniffing inconclusive, defaulting to comma")
		delim = DefaultDelimiter
	}

	logger.WithFields(
		logging.Field{Key: "encoding", Value: name},
		logging.Field{Key: "delimiter", Value: string(delim)},
	).Debug("Detected file encoding and delimiter")

	return Result{Encoding: enc, EncodingName: name, Delimiter: delim}
}

// DetectFile reads the leading sample of a file and runs Detect on it.
// The only failure mode is an unreadable file.
func DetectFile(path string, defaultEncoding string, logger logging.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	sample := make([]byte, SampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Result{}, err
	}

	return Detect(sample[:n], defaultEncoding, logger), nil
}

// DecodeReader wraps r so its bytes are transcoded from the detected encoding
// to UTF-8. A nil encoding passes the reader through unchanged.
func DecodeReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// detectEncoding makes a statistical guess over the sample. When the guess is
// not confident, the configured default encoding wins.
func detectEncoding(sample []byte, defaultEncoding string, logger logging.Logger) (encoding.Encoding, string) {
	enc, name, certain := charset.DetermineEncoding(sample, "")
	if certain {
		return enc, name
	}

	if defaultEncoding != "" {
		if fallback, fallbackName := charset.Lookup(defaultEncoding); fallback != nil {
			logger.WithField("encoding", fallbackName).Debug("Encoding guess uncertain, using configured default")
			return fallback, fallbackName
		}
		logger.WithField("encoding", defaultEncoding).Warn("Configured default encoding not recognized, keeping statistical guess")
	}

	return enc, name
}

// detectDelimiter looks for a candidate character that appears a consistent,
// non-zero number of times on every sampled line. Fewer than two lines is too
// little structure to sniff.
func detectDelimiter(text string) (rune, bool) {
	lines := sampleLines(text, 10)
	if len(lines) < 2 {
		return 0, false
	}

	for _, delim := range candidateDelimiters {
		count := strings.Count(lines[0], string(delim))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(delim)) != count {
				consistent = false
				break
			}
		}
		if consistent {
			return delim, true
		}
	}

	return 0, false
}

// sampleLines returns up to max complete non-empty lines from the text. The
// trailing line is discarded when the sample ends mid-line.
func sampleLines(text string, max int) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	// A sample cut off mid-line would distort the count for its delimiter.
	if len(lines) > 1 && !strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
