package rlv

import (
	"regexp"
	"strings"
)

const Sigil = "@"

// Instruction is one "behaviour[:option]=param" segment of an RLV line.
type Instruction struct {
	Behaviour string
	Option    string
	Param     string
}

var segmentPattern = regexp.MustCompile(`^([^:=]+)(?::([^=]*))?=(.*)$`)

// IsCommand tells whether a chat line is addressed to the rule engine.
func IsCommand(message string) bool {
	return strings.HasPrefix(message, Sigil)
}

// Parse consumes the line one comma-separated segment at a time. Segments
// that do not match the grammar are skipped, the rest are returned in order.
func Parse(message string) []Instruction {
	var instructions []Instruction
	remainder := strings.TrimPrefix(message, Sigil)
	for remainder != "" {
		var segment string
		segment, remainder, _ = strings.Cut(remainder, ",")
		if in, ok := parseSegment(segment); ok {
			instructions = append(instructions, in)
		}
	}
	return instructions
}

func parseSegment(segment string) (Instruction, bool) {
	m := segmentPattern.FindStringSubmatch(strings.TrimSpace(segment))
	if m == nil {
		return Instruction{}, false
	}
	behaviour := strings.ToLower(strings.TrimSpace(m[1]))
	if behaviour == "" {
		return Instruction{}, false
	}
	return Instruction{Behaviour: behaviour, Option: m[2], Param: m[3]}, true
}
