package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// lineKind tags which shape a line matched.
type lineKind int

const (
	lineNone lineKind = iota
	lineDirect
	lineRelative
	lineMarkerNumeric
	lineMarkerReferential
	lineStringConst
	lineInlineName
	lineNamePointer
	lineBlockStart
	lineBlockEnd
	lineField
	lineFlag
	lineTwoLineStart
	lineTwoLineContinue
	lineTwoLineFinish
	lineFourLine
	lineTwoLinePointer
	lineFourLinePointer
	lineName
)

// rule pairs a line shape with its pattern.
type rule struct {
	kind lineKind
	re   *regexp.Regexp
}

// match is the tagged result of classifying one line.
type match struct {
	kind lineKind
	re   *regexp.Regexp
	sub  []string
}

// group returns the named capture, or "" when it did not participate.
func (m match) group(name string) string {
	i := m.re.SubexpIndex(name)
	if i < 0 || i >= len(m.sub) {
		return ""
	}
	return m.sub[i]
}

// intGroup parses a named capture; an empty capture yields fallback.
func (m match) intGroup(name string, fallback int) (int, error) {
	s := m.group(name)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return n, nil
}

// classify tries rules in order; the first match wins.
func classify(rules []rule, line string) (match, bool) {
	for _, r := range rules {
		if sub := r.re.FindStringSubmatch(line); sub != nil {
			return match{kind: r.kind, re: r.re, sub: sub}, true
		}
	}
	return match{}, false
}

// readLines reads r into lines without terminators.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return lines, nil
}

// readRawLines reads r into lines that keep their terminators, so
// passthrough regions can be copied byte for byte. The last line has no
// terminator when the input does not end with one.
func readRawLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read lines: %w", err)
		}
	}
}

// chomp strips the line terminator, LF or CRLF.
func chomp(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// lineWriter accumulates the first write error so encoders can stay linear.
type lineWriter struct {
	w   *bufio.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: bufio.NewWriter(w)}
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = lw.w.WriteString(s + "\n")
}

func (lw *lineWriter) linef(format string, args ...any) {
	lw.line(fmt.Sprintf(format, args...))
}

func (lw *lineWriter) raw(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = lw.w.WriteString(s)
}

// passthrough copies a raw line unchanged, adding a newline only when the
// line is unterminated and more output follows.
func (lw *lineWriter) passthrough(line string, more bool) {
	lw.raw(line)
	if more && !strings.HasSuffix(line, "\n") {
		lw.raw("\n")
	}
}

func (lw *lineWriter) flush() error {
	if lw.err != nil {
		return lw.err
	}
	return lw.w.Flush()
}

func indent(n int) string {
	return strings.Repeat("    ", n)
}
