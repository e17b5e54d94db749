package parsers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LexiconEntry is one word line of a lexicon file:
//
//	word pinyin[,pinyin...] TAG:freq [TAG:freq ...]
type LexiconEntry struct {
	Line    int
	Word    string
	Pinyins []string
	Freqs   []TagFreq
}

// TagFreq pairs a part-of-speech tag with a frequency count.
type TagFreq struct {
	Tag  string
	Freq int
}

// LineError reports a line that could not be parsed.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseResult contains the outcome of parsing a lexicon.
type ParseResult struct {
	Entries []LexiconEntry
	Errors  []LineError
}

// LexiconParser reads the plain-text lexicon format. Blank lines and lines
// starting with # are skipped.
type LexiconParser struct {
	// MaxLineBytes caps a single line; zero means 64 KiB.
	MaxLineBytes int
}

func NewLexiconParser() *LexiconParser {
	return &LexiconParser{}
}

// ParseFile opens path and parses it.
func (parser *LexiconParser) ParseFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon: %w", err)
	}
	defer f.Close()
	return parser.Parse(f)
}

// Parse reads every line from r. Malformed lines are collected in
// ParseResult.Errors; only read failures return an error.
func (parser *LexiconParser) Parse(r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(r)
	if parser.MaxLineBytes > 0 {
		scanner.Buffer(make([]byte, 0, 4096), parser.MaxLineBytes)
	}

	result := &ParseResult{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := ParseLexiconLine(line)
		if err != nil {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		entry.Line = lineNo
		result.Entries = append(result.Entries, *entry)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read lexicon: %w", err)
	}

	return result, nil
}

// ParseLexiconLine parses a single non-comment line.
func ParseLexiconLine(line string) (*LexiconEntry, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("expected word and pinyin, got %d field(s)", len(fields))
	}

	entry := &LexiconEntry{Word: fields[0]}

	for _, p := range strings.Split(fields[1], ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty pinyin in %q", fields[1])
		}
		entry.Pinyins = append(entry.Pinyins, p)
	}

	for _, field := range fields[2:] {
		tag, freqStr, ok := strings.Cut(field, ":")
		if !ok || tag == "" {
			return nil, fmt.Errorf("expected TAG:freq, got %q", field)
		}
		freq, err := strconv.Atoi(freqStr)
		if err != nil {
			return nil, fmt.Errorf("invalid frequency in %q: %w", field, err)
		}
		if freq < 0 {
			return nil, fmt.Errorf("negative frequency in %q", field)
		}
		entry.Freqs = append(entry.Freqs, TagFreq{Tag: tag, Freq: freq})
	}

	return entry, nil
}
