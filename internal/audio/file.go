package audio

import (
	"os"
	"sync"
)

// File is a temporary on-disk copy of one fetched utterance, the resource a
// playback session owns until it is released. Close removes it and is safe to
// call from every exit path; only the first call does anything.
type File struct {
	path string
	once sync.Once
}

// NewFile writes data to a fresh temp file.
func NewFile(data []byte) (*File, error) {
	f, err := os.CreateTemp("", "utterance-*.mp3")
	if err != nil {
		return nil, err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	return &File{path: f.Name()}, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Close() error {
	var err error
	f.once.Do(func() {
		err = os.Remove(f.path)
	})
	return err
}
