//go:build !linux || headless

// lha_stream_fallback.go - Stub for builds without liblhasa.

package main

import "fmt"

type LHAStream struct{}

func OpenLHAStream(path string) (*LHAStream, error) {
	return nil, fmt.Errorf("LHA extraction requires Linux with liblhasa installed")
}

func (s *LHAStream) Next() bool {
	return false
}

func (s *LHAStream) Extract(dest string) error {
	return fmt.Errorf("LHA extraction unavailable")
}

func (s *LHAStream) Close() {}
