// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import "os"

// FileSink is a Sink backed by a local file.
type FileSink struct {
	file *os.File
	path string
}

var _ = Sink((*FileSink)(nil))

// NewFileSink creates the file at path, truncating an existing one.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: file, path: path}, nil
}

func (fs *FileSink) Write(p []byte) (int, error) { return fs.file.Write(p) }

// Close syncs and closes the file, so a finalized segment is durable
// before the next one is opened.
func (fs *FileSink) Close() error {
	if fs.file == nil {
		return nil
	}
	file := fs.file
	fs.file = nil
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Path returns the file path.
func (fs *FileSink) Path() string { return fs.path }
