package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadMemory = 32 << 20

// storeUpload streams a multipart file to the media store under a fresh key
// and returns the public URL.
func storeUpload(ctx context.Context, media MediaStore, prefix string, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer file.Close()

	return media.Save(ctx, uploadKey(prefix, fh.Filename), file)
}

// spoolToTemp copies a multipart file to a temporary file on disk so it can
// be probed before being stored. The caller removes the file when done.
func spoolToTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "vidtube-upload-*"+uploadExt(fh.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("spool upload %s: %w", fh.Filename, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}

// storeFile uploads a local file to the media store under a fresh key.
func storeFile(ctx context.Context, media MediaStore, prefix, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open spooled file: %w", err)
	}
	defer file.Close()

	return media.Save(ctx, uploadKey(prefix, path), file)
}

func uploadKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), uploadExt(filename))
}

func uploadExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
