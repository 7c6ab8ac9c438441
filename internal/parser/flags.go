package parser

import (
	"io"
	"regexp"
	"slices"
	"strings"

	"er-editor/internal/model"
)

var flagRules = []rule{
	{lineFlag, regexp.MustCompile(`^\s*#define (?P<name>` + model.IdentPattern(model.FlagPrefix) + `)\s+\(1\s+<<\s+(?P<value>\d+)\)`)},
}

const (
	definePrefix     = "#define "
	secondFlagHeader = "// Battle move Flags 2"
)

// FlagBank holds the two flag vocabularies. Primary is ordered by bit
// position; Secondary collects definitions that collided with a primary bit,
// in order of appearance.
type FlagBank struct {
	Primary   []string
	Secondary []string
}

// DecodeFlags reads every FLAG_ bit definition of the file.
func DecodeFlags(r io.Reader) (*FlagBank, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	byBit := make(map[int]string)
	bank := &FlagBank{}
	for _, line := range lines {
		m, ok := classify(flagRules, line)
		if !ok {
			continue
		}
		bit, err := m.intGroup("value", 0)
		if err != nil {
			return nil, err
		}
		if _, taken := byBit[bit]; taken {
			bank.Secondary = append(bank.Secondary, m.group("name"))
			continue
		}
		byBit[bit] = m.group("name")
	}

	bits := make([]int, 0, len(byBit))
	for bit := range byBit {
		bits = append(bits, bit)
	}
	slices.Sort(bits)
	for _, bit := range bits {
		bank.Primary = append(bank.Primary, byBit[bit])
	}
	return bank, nil
}

// EncodeFlags rewrites the flag region of original. Bytes before the first
// flag definition and after the last one are copied verbatim.
func EncodeFlags(w io.Writer, original io.Reader, primary, secondary []string) error {
	lines, err := readRawLines(original)
	if err != nil {
		return err
	}

	isFlag := func(line string) bool {
		_, ok := classify(flagRules, chomp(line))
		return ok
	}
	first := slices.IndexFunc(lines, isFlag)
	head, tail := lines, []string(nil)
	if first >= 0 {
		last := len(lines) - 1
		for !isFlag(lines[last]) {
			last--
		}
		head, tail = lines[:first], lines[last+1:]
	}

	column := FlagValueColumn(append(slices.Clone(primary), secondary...))

	lw := newLineWriter(w)
	for _, line := range head {
		lw.passthrough(line, true)
	}
	writeBank := func(flags []string) {
		for bit, flag := range flags {
			pad := column - len(definePrefix) - len(flag)
			lw.linef("%s%s%s(1 << %d)", definePrefix, flag, strings.Repeat(" ", pad), bit)
		}
	}
	writeBank(primary)
	lw.line("")
	lw.line(secondFlagHeader)
	writeBank(secondary)
	for i, line := range tail {
		lw.passthrough(line, i < len(tail)-1)
	}
	return lw.flush()
}

// FlagValueColumn is the column where "(1 << n)" starts: the smallest
// multiple of 4 that leaves at least one space after the longest name.
func FlagValueColumn(flags []string) int {
	longest := 0
	for _, f := range flags {
		longest = max(longest, len(f))
	}
	width := len(definePrefix) + longest + 1
	return (width + 3) / 4 * 4
}
