package makefile

import (
	"io"
	"strings"
)

// scriptWriter serializes make statements. The first write error is kept and
// every later call becomes a no-op, so callers check Err once at the end.
// Every line is terminated with a single line feed, whatever the host.
type scriptWriter struct {
	writer io.Writer
	err    error

	justDidBlankLine bool // true if the last operation was a BlankLine
}

func newScriptWriter(w io.Writer) *scriptWriter {
	return &scriptWriter{writer: w}
}

// Err returns the first error encountered while writing.
func (s *scriptWriter) Err() error {
	return s.err
}

func (s *scriptWriter) line(text string) {
	if s.err != nil {
		return
	}
	s.justDidBlankLine = false
	text = strings.TrimRight(normalizeNewlines(text), "\n")
	_, s.err = io.WriteString(s.writer, text+"\n")
}

// Comment writes each line of comment prefixed with "# ".
func (s *scriptWriter) Comment(comment string) {
	for _, l := range strings.Split(normalizeNewlines(comment), "\n") {
		s.line(strings.TrimSpace("# " + l))
	}
}

// Assign writes a recursively expanded variable. An empty value is written
// as "NAME=".
func (s *scriptWriter) Assign(name, value string) {
	s.line(name + "=" + value)
}

// Phony declares target as phony.
func (s *scriptWriter) Phony(target string) {
	s.line(".PHONY: " + target)
}

// Include writes a conditional include directive. Make skips it silently
// when the file does not exist.
func (s *scriptWriter) Include(file string) {
	s.line("-include " + file)
}

// Rule writes a target line followed by one recipe line per command.
// orderOnly prerequisites follow a "|" separator.
func (s *scriptWriter) Rule(target string, deps, orderOnly, commands []string) {
	head := target + ":"
	if len(deps) > 0 {
		head += " " + strings.Join(deps, " ")
	}
	if len(orderOnly) > 0 {
		head += " | " + strings.Join(orderOnly, " ")
	}
	s.line(head)
	for _, cmd := range commands {
		s.line("\t" + cmd)
	}
}

// BlankLine writes an empty line, collapsing consecutive blank lines.
func (s *scriptWriter) BlankLine() {
	if s.justDidBlankLine || s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.writer, "\n")
	s.justDidBlankLine = true
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// commandLines splits a user supplied command (pre-build, post-build,
// custom rule) into recipe lines, dropping blank ones.
func commandLines(cmd string) []string {
	var out []string
	for _, l := range strings.Split(normalizeNewlines(cmd), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
