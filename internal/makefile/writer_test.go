package makefile

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptWriter(t *testing.T) {
	var buf bytes.Buffer
	sw := newScriptWriter(&buf)
	sw.Comment("first\r\nsecond")
	sw.BlankLine()
	sw.BlankLine()
	sw.Assign("EMPTY", "")
	sw.Include("obj/a.d")
	sw.Phony("all")
	sw.Rule("all", []string{"a", "b"}, nil, []string{"echo hi"})
	sw.Rule("none", nil, nil, nil)
	sw.Rule("obj/a.d", []string{"a.cpp"}, []string{"Debug_PreBuildEvent", "gen"}, nil)
	sw.Rule("ordered", nil, []string{"first"}, nil)

	assert.NoError(t, sw.Err())
	assert.Equal(t, "# first\n# second\n\nEMPTY=\n-include obj/a.d\n.PHONY: all\nall: a b\n\techo hi\nnone:\n"+
		"obj/a.d: a.cpp | Debug_PreBuildEvent gen\nordered: | first\n", buf.String())
}

type failingWriter struct{ calls int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("disk full")
}

func TestScriptWriterKeepsFirstError(t *testing.T) {
	fw := &failingWriter{}
	sw := newScriptWriter(fw)
	sw.Assign("A", "1")
	sw.Assign("B", "2")
	sw.BlankLine()

	assert.EqualError(t, sw.Err(), "disk full")
	assert.Equal(t, 1, fw.calls)
}

func TestCommandLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, commandLines("a\r\n\r\n  b  \n"))
	assert.Nil(t, commandLines("   "))
}
