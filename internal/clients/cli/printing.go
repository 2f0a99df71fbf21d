// Package cli provides utilities for reporting progress and diagnostics on the command line
package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const indentation = "  "

type IndentedWriter struct {
	indent     int
	ansiWriter *ansi.Writer
	skipIndent bool
	ansi       bool
}

func NewIndentedWriter(indent int, forward io.Writer) *IndentedWriter {
	return &IndentedWriter{
		indent: indent,
		ansiWriter: &ansi.Writer{
			Forward: forward,
		},
	}
}

// IndentedWriter: io.Writer

func (w *IndentedWriter) Write(b []byte) (n int, err error) {
	// This method was adapted from the Writer.Write method in the indent package of the MIT-licensed
	// github.com/muesli/reflow project maintained by Christian Muehlhaeuser
	// (see https://github.com/muesli/reflow/blob/83f6379/indent/indent.go#L60). The method was
	// modified to properly indent after `\r` sequences.
	for _, c := range string(b) {
		switch {
		case c == '\x1B': // ANSI escape sequence
			w.ansi = true
		case w.ansi:
			if (c >= 0x41 && c <= 0x5a) || (c >= 0x61 && c <= 0x7a) {
				// ANSI sequence terminated
				w.ansi = false
			}
		default:
			if !w.skipIndent {
				w.ansiWriter.ResetAnsi()
				if _, err := w.ansiWriter.Write([]byte(makeIndentation(w.indent))); err != nil {
					return 0, err
				}

				w.skipIndent = true
				w.ansiWriter.RestoreAnsi()
			}

			if c == '\n' || c == '\r' {
				// end of current line
				w.skipIndent = false
			}
		}

		if _, err := w.ansiWriter.Write([]byte(string(c))); err != nil {
			return 0, err
		}
	}

	return len(b), nil
}

func makeIndentation(indent int) string {
	return strings.Repeat(indentation, indent)
}

// YAML

// FprintYaml writes a as a YAML document, indented by the specified level.
func FprintYaml(indent int, w io.Writer, a any) error {
	buf := &bytes.Buffer{}
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(len(indentation))
	if err := encoder.Encode(a); err != nil {
		return errors.Wrapf(err, "couldn't serialize %T as yaml document", a)
	}
	if err := encoder.Close(); err != nil {
		return errors.Wrapf(
			err, "couldn't close yaml encoder after serializing %T as yaml document", a,
		)
	}
	_, err := fmt.Fprint(NewIndentedWriter(indent, w), buf.String())
	return err
}
