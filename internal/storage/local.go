package storage

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize: uploads above 5 MB are rejected with a user-visible error.
const MaxImageSize = 5 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the 5 MB limit")
	ErrUnsupportedType = errors.New("file type must be jpeg, png, gif or webp")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage sniffs the payload and returns its extension. The accepted
// set matches what the dashboard renders: jpeg, png, gif, webp.
func ValidateImage(data []byte) (string, error) {
	if len(data) > MaxImageSize {
		return "", ErrFileTooLarge
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeFilename lowercases the name, collapses every run of
// non-alphanumeric characters to a single hyphen and truncates to 50
// characters.
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ToLower(name)
	name = nonAlnum.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > 50 {
		name = strings.Trim(name[:50], "-")
	}
	if name == "" {
		name = "file"
	}
	return name
}

// UniqueFilename prefixes the sanitized name with a timestamp and a random
// suffix so two uploads of the same file never collide.
func UniqueFilename(original, ext string) string {
	return fmt.Sprintf("%d-%s-%s%s", time.Now().Unix(), uuid.NewString()[:8], SanitizeFilename(original), ext)
}

// Local is a disk-backed object store. Buckets are folders under Root;
// saved objects are served back under BaseURL/uploads/<bucket>/<name>.
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) *Local {
	return &Local{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes the object and returns its public URL.
func (s *Local) Save(bucket, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.Root, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("bucket could not be created: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("file could not be written: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.BaseURL, bucket, filename), nil
}
