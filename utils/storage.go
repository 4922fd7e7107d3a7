package utils

import (
	"io"

	storage "github.com/supabase-community/storage-go"
)

const (
	BucketAvatars   = "avatars"
	BucketRoomLogos = "room-logos"
	BucketDocuments = "documents"

	// Fixed expiry for document access links, in seconds.
	SignedURLExpiry = 3600
)

// Storage wraps the hosted object store. Built once at startup and injected,
// instead of re-reading the environment on every upload.
type Storage struct {
	client *storage.Client
}

func NewStorage(baseURL, key string) *Storage {
	return &Storage{
		client: storage.NewClient(baseURL+"/storage/v1", key, nil),
	}
}

// Upload writes an object and returns its public URL. With upsert set an
// existing object at the same path is overwritten (avatar/logo replacement);
// without it the upload fails on conflict.
func (s *Storage) Upload(bucket, path string, r io.Reader, contentType string, upsert bool) (string, error) {
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(bucket, path, r, options); err != nil {
		return "", err
	}
	res := s.client.GetPublicUrl(bucket, path)
	return res.SignedURL, nil
}

// SignedURL issues a time-limited link to a private object.
func (s *Storage) SignedURL(bucket, path string) (string, error) {
	res, err := s.client.CreateSignedUrl(bucket, path, SignedURLExpiry)
	if err != nil {
		return "", err
	}
	return res.SignedURL, nil
}

// Remove deletes a stored object.
func (s *Storage) Remove(bucket, path string) error {
	_, err := s.client.RemoveFile(bucket, []string{path})
	return err
}
