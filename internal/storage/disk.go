package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joblane/joblane/internal/apperr"
)

// DiskStore keeps documents under a local directory and serves them back
// through the HTTP server's /files route. Keys are slash-separated relative
// paths; anything escaping the root is rejected.
type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, apperr.Wrapf(err, "failed to create files directory %s", root)
	}
	return &DiskStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", apperr.Newf("invalid document key %q", key)
	}
	return filepath.Join(s.Root, clean), nil
}

func (s *DiskStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", apperr.Wrap(err, "failed to create document directory")
	}

	// O_EXCL gives the no-overwrite guarantee for resubmission attempts.
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", apperr.Wrapf(apperr.ErrConflict, "document %s already stored", key)
		}
		return "", apperr.Wrap(err, "failed to create document file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(p)
		return "", apperr.Wrap(err, "failed to write document")
	}
	return s.BaseURL + "/files/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return apperr.Wrapf(apperr.ErrNotFound, "document %s", key)
		}
		return apperr.Wrap(err, "failed to delete document")
	}
	return nil
}
