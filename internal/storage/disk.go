// Package storage is the file collaborator for image uploads: it accepts
// a raw upload and hands back a stable reference string. The rest of the
// system only ever stores and returns that string.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"citydrive-motors/internal/domain"
	"citydrive-motors/pkg/utils"
)

// URLPrefix is the public path uploaded images are served under.
const URLPrefix = "/uploads"

var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// DiskStore writes uploads into a flat directory under random names.
type DiskStore struct {
	Dir      string
	MaxBytes int64
}

func NewDiskStore(dir string, maxSizeMB int) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, MaxBytes: int64(maxSizeMB) << 20}, nil
}

// Save validates extension and size, writes the upload under a fresh
// name, and returns its public reference. Validation failures come back
// as a ValidationError keyed by the original filename.
func (s *DiskStore) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", &domain.ValidationError{Fields: map[string]string{
			"images": fmt.Sprintf("%s: only jpg, jpeg, png and webp files are allowed", fh.Filename),
		}}
	}
	if fh.Size > s.MaxBytes {
		return "", &domain.ValidationError{Fields: map[string]string{
			"images": fmt.Sprintf("%s: file exceeds %d MB", fh.Filename, s.MaxBytes>>20),
		}}
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := utils.NewID() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1)); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return path.Join(URLPrefix, name), nil
}
