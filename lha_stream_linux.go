//go:build linux && !headless

// lha_stream_linux.go - LHA container extraction using system liblhasa.

package main

/*
#cgo pkg-config: liblhasa
#include <stdlib.h>
#include <lhasa.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// LHAStream wraps a liblhasa reader over a compressed container. YM files
// are customarily shipped inside single-member LHA archives; the player
// extracts the first member and decodes the result.
type LHAStream struct {
	stream *C.LHAInputStream
	reader *C.LHAReader
}

func OpenLHAStream(path string) (*LHAStream, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	stream := C.lha_input_stream_from(cPath)
	if stream == nil {
		return nil, fmt.Errorf("lha_input_stream_from failed for %s", path)
	}

	reader := C.lha_reader_new(stream)
	if reader == nil {
		C.lha_input_stream_free(stream)
		return nil, fmt.Errorf("lha_reader_new failed for %s", path)
	}

	return &LHAStream{stream: stream, reader: reader}, nil
}

// Next advances to the next member and reports whether one exists.
func (s *LHAStream) Next() bool {
	return C.lha_reader_next_file(s.reader) != nil
}

// Extract decompresses the current member into dest.
func (s *LHAStream) Extract(dest string) error {
	cDest := C.CString(dest)
	defer C.free(unsafe.Pointer(cDest))

	if C.lha_reader_extract(s.reader, cDest, nil, nil) == 0 {
		return fmt.Errorf("lha_reader_extract failed for %s", dest)
	}
	return nil
}

func (s *LHAStream) Close() {
	if s.reader != nil {
		C.lha_reader_free(s.reader)
		s.reader = nil
	}
	if s.stream != nil {
		C.lha_input_stream_free(s.stream)
		s.stream = nil
	}
}
