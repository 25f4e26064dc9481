// Package video provides pull-based sources of decoded BGR frames.
//
// Sources are finite, forward-only and not restartable: once Next returns
// false the stream is exhausted, and callers that need a second pass must
// open a new source.
package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Source supplies an ordered, finite sequence of decoded frames.
type Source interface {
	// Next reads the next frame into dst, returning false when the stream
	// is exhausted. Exhaustion is normal termination, not an error.
	Next(dst *gocv.Mat) (bool, error)

	// Close releases the underlying decoder resources.
	Close() error
}

// FileSource decodes frames from a video file.
type FileSource struct {
	capture *gocv.VideoCapture
}

// OpenFile opens a video file for sequential decoding.
func OpenFile(path string) (*FileSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &FileSource{capture: capture}, nil
}

// Next reads the next decoded frame.
func (s *FileSource) Next(dst *gocv.Mat) (bool, error) {
	if !s.capture.Read(dst) || dst.Empty() {
		return false, nil
	}
	return true, nil
}

// Close releases the decoder.
func (s *FileSource) Close() error {
	return s.capture.Close()
}

// MatSource replays an in-memory sequence of frames. Used by tests and by
// still-image scanning. The source borrows the Mats; it does not close them.
type MatSource struct {
	frames []gocv.Mat
	next   int
}

// NewMatSource creates a source over the given frames.
func NewMatSource(frames []gocv.Mat) *MatSource {
	return &MatSource{frames: frames}
}

// Next copies the next frame into dst.
func (s *MatSource) Next(dst *gocv.Mat) (bool, error) {
	if s.next >= len(s.frames) {
		return false, nil
	}
	s.frames[s.next].CopyTo(dst)
	s.next++
	return true, nil
}

// Close implements Source. The borrowed frames stay owned by the caller.
func (s *MatSource) Close() error {
	return nil
}
