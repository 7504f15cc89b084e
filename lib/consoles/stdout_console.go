package consoles

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

type writerConsole struct {
	out      io.Writer
	err      io.Writer
	prefixes []string
}

func NewStdOutConsole() Console {
	return &writerConsole{out: os.Stdout, err: os.Stderr}
}

// NewStdErrConsole sends everything to stderr. Used by commands that stream
// their result to stdout, so progress messages don't end up in the result.
func NewStdErrConsole() Console {
	return &writerConsole{out: os.Stderr, err: os.Stderr}
}

func (o *writerConsole) Printf(format string, a ...any) {
	_, _ = fmt.Fprint(o.out, o.prepare("", format, a))
}

func (o *writerConsole) Warnf(format string, a ...any) {
	_, _ = fmt.Fprint(o.err, o.prepare("warning: ", format, a))
}

func (o *writerConsole) Prepare(format string, a ...any) string {
	return o.prepare("", format, a)
}

func (o *writerConsole) prepare(level string, format string, a []any) string {
	builder := strings.Builder{}
	builder.WriteString("[")
	builder.WriteString(time.Now().Format("15:04:05"))
	builder.WriteString("] ")
	builder.WriteString(level)
	for _, prefix := range o.prefixes {
		builder.WriteString(prefix)
	}
	builder.WriteString(fmt.Sprintf(format, a...))
	return builder.String()
}

func (o *writerConsole) PushPrefix(format string, a ...any) {
	o.prefixes = append(o.prefixes, fmt.Sprintf(format, a...))
}

func (o *writerConsole) PopPrefix() {
	o.prefixes = o.prefixes[:len(o.prefixes)-1]
}
