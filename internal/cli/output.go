package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// openOutput opens path for writing, truncating any existing file. An
// empty path selects stdout, whose Close is a no-op so callers can
// defer it unconditionally.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return stdoutSink{}, nil
	}
	return os.Create(path)
}

// stdoutSink adapts os.Stdout to io.WriteCloser without ever closing it.
type stdoutSink struct{}

func (stdoutSink) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdoutSink) Close() error                { return nil }

// defaultOutputPath builds a timestamped output filename for the given
// format, e.g. "exprtex-20250114093045.png".
func defaultOutputPath(format string) string {
	return fmt.Sprintf("%s-%s.%s", appName, time.Now().Format("20060102150405"), format)
}

// writeArtifact writes data to path, creating the file first if needed.
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.Write(data)
	return err
}
