package ccsds

/*------------------------------------------------------------------
 *
 * Purpose:	Places to put decoded payloads.
 *
 * Description:	WriterSink appends raw payload bytes to a stream,
 *		e.g. stdout, so the output can be piped along.
 *
 *		DirSink stores each payload in its own file.  The name is
 *		built from a 'strftime' pattern applied to the receive
 *		time, followed by a sequence number so that several frames
 *		in the same second don't collide:
 *
 *			%Y%m%d-%H%M%S  ->  20261017-142501-000042.bin
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lestrrat-go/strftime"
)

type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Publish(p Payload) error {
	var _, err = s.w.Write(p.Data)
	return err
}

const DefaultNameFormat = "%Y%m%d-%H%M%S"

type DirSink struct {
	dir    string
	format *strftime.Strftime
	seq    int
}

func NewDirSink(dir string, nameFormat string) (*DirSink, error) {
	if nameFormat == "" {
		nameFormat = DefaultNameFormat
	}

	var f, err = strftime.New(nameFormat)
	if err != nil {
		return nil, fmt.Errorf("file name format %q: %w", nameFormat, err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	return &DirSink{dir: dir, format: f}, nil
}

// Publish writes one file per payload.
func (s *DirSink) Publish(p Payload) error {
	var path = s.Path(p)
	s.seq++

	if err := os.WriteFile(path, p.Data, 0o640); err != nil { //nolint:gosec
		return fmt.Errorf("saving payload: %w", err)
	}

	return nil
}

// Path is where the next Publish of p will go.
func (s *DirSink) Path(p Payload) string {
	var name = fmt.Sprintf("%s-%06d.bin", s.format.FormatString(p.Received), s.seq)
	return filepath.Join(s.dir, name)
}

// MultiSink publishes to each sink in turn and stops at the first error.
type MultiSink []PayloadSink

func (m MultiSink) Publish(p Payload) error {
	for _, s := range m {
		if err := s.Publish(p); err != nil {
			return err
		}
	}
	return nil
}
