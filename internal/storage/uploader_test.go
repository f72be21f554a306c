package storage

import (
	"context"
	"errors"
	"testing"
)

type recordingWriter struct {
	writeErr error
	closeErr error
	wrote    int
	closed   int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.wrote += len(p)
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return len(p), nil
}

func (w *recordingWriter) Close() error {
	w.closed++
	return w.closeErr
}

func TestWriteObject(t *testing.T) {
	tests := []struct {
		name     string
		writeErr error
		closeErr error
		wantErr  error
	}{
		{"success", nil, nil, nil},
		{"write fails", errors.New("stream reset"), nil, errors.New("stream reset")},
		{"close fails", nil, errors.New("finalize failed"), errors.New("finalize failed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &recordingWriter{writeErr: tt.writeErr, closeErr: tt.closeErr}
			err := writeObject(w, []byte("doc bytes"))
			if (err == nil) != (tt.wantErr == nil) {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr != nil && err.Error() != tt.wantErr.Error() {
				t.Fatalf("err=%v want %v", err, tt.wantErr)
			}
			// The writer must be closed exactly once on every path; an open
			// writer keeps the upload session alive server-side.
			if w.closed != 1 {
				t.Fatalf("closed=%d want 1", w.closed)
			}
		})
	}
}

func TestNewUploaderRequiresBucket(t *testing.T) {
	if _, err := NewUploader(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
