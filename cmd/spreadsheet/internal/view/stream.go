package view

import (
	"fmt"
	"io"
	"runtime"

	"sigs.k8s.io/release-utils/version"
)

// Stream provides basic output operations wrapping an io.Writer.
type Stream struct {
	Writer io.Writer
}

// NewStream creates a Stream writing to the provided io.Writer.
func NewStream(w io.Writer) *Stream {
	return &Stream{
		Writer: w,
	}
}

// Println writes arguments to the stream with a newline.
func (s *Stream) Println(args ...any) {
	fmt.Fprintln(s.Writer, args...)
}

// Printf writes formatted output to the stream.
func (s *Stream) Printf(fmtStr string, args ...any) {
	fmt.Fprintf(s.Writer, fmtStr, args...)
}

// PrintVersion writes version information to the stream.
func (s *Stream) PrintVersion() {
	info := version.GetVersionInfo()
	fmt.Fprintf(s.Writer, "spreadsheet version %s\n", info.GitVersion)
	fmt.Fprintf(s.Writer, "%s/%s\n", runtime.GOOS, runtime.GOARCH)
}
