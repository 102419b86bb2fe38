package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a single write out to all writers (e.g. stdout + rotating log file).
// A failing writer does not stop the others; the errors are combined.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w == nil {
			continue
		}
		cw.Writers = append(cw.Writers, w)
	}
	return cw
}

func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}
