package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Uploader writes customer documents to the storage bucket and returns
// token-protected download URLs compatible with the Firebase storage CDN.
type Uploader struct {
	client *gcs.Client
	bucket string
}

func NewUploader(ctx context.Context, bucket string, opts ...option.ClientOption) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// Upload stores data under documents/<uid>/<random>-<fileName> and returns
// the public URL.
func (u *Uploader) Upload(ctx context.Context, userUID, fileName, contentType string, data []byte) (string, error) {
	objectPath := path.Join("documents", userUID, uuid.NewString()+"-"+fileName)
	token := uuid.NewString()

	obj := u.client.Bucket(u.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if err := writeObject(w, data); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, escapedPath, token)
	return publicURL, nil
}

// writeObject writes data and finalizes the object. The writer is closed on
// both paths; a write failure must still close it to abort the upload session.
func writeObject(w io.WriteCloser, data []byte) error {
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (u *Uploader) Close() error {
	return u.client.Close()
}
