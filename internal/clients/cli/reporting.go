package cli

import (
	"fmt"
	"io"
)

const (
	warningPrefix = "[WARNING] "
	errorPrefix   = "[ERROR] "
)

// A Reporter prints progress messages and diagnostics, normally to stderr.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Indented returns a Reporter which writes to the same destination, indented by one more level.
func (r *Reporter) Indented() *Reporter {
	return &Reporter{w: NewIndentedWriter(1, r.w)}
}

func (r *Reporter) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format+"\n", a...)
}

func (r *Reporter) Warnf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, warningPrefix+format+"\n", a...)
}

func (r *Reporter) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, errorPrefix+format+"\n", a...)
}
