package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxDocSize is the upload ceiling for joining documents.
const MaxDocSize = 10 << 20 // 10MB

// DocStore persists employee joining documents (zip archives) on local disk.
type DocStore struct {
	baseDir string
}

func NewDocStore(baseDir string) *DocStore {
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &DocStore{baseDir: baseDir}
}

// sanitize replaces every character outside [A-Za-z0-9] with an underscore
// so employee names cannot escape the storage directory.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ValidateDoc checks the upload is a zip archive within the size limit.
func ValidateDoc(header *multipart.FileHeader) error {
	if header.Size > MaxDocSize {
		return fmt.Errorf("file exceeds maximum size of 10MB")
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".zip") {
		return fmt.Errorf("only zip files are accepted")
	}
	return nil
}

// SaveDoc stores the uploaded archive under
// <base>/doc/<YYYY-MM-DD>/<passport>_<name>/<filename> and returns the
// relative path to record against the employee.
func (s *DocStore) SaveDoc(header *multipart.FileHeader, passportID, employeeName string) (string, error) {
	if err := ValidateDoc(header); err != nil {
		return "", err
	}

	day := time.Now().Format("2006-01-02")
	dir := filepath.Join(s.baseDir, "doc", day, sanitize(passportID)+"_"+sanitize(employeeName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	dst := filepath.Join(dir, filepath.Base(header.Filename))
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return dst, nil
}

// Open returns a reader over a previously stored document. The path must be
// one recorded by SaveDoc; anything resolving outside the base directory is
// rejected.
func (s *DocStore) Open(path string) (*os.File, error) {
	clean := filepath.Clean(path)
	base := filepath.Clean(s.baseDir)
	if clean != base && !strings.HasPrefix(clean, base+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid document path")
	}
	return os.Open(clean)
}
