package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const maxImageBytes = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// saveImage stores an uploaded image under <baseDir>/<kind>/ with a random
// file name and returns the relative path that goes into the database.
// Content type is sniffed from the first bytes rather than trusted from the
// client header.
func saveImage(fh *multipart.FileHeader, baseDir, kind string) (string, error) {
	if fh.Size > maxImageBytes {
		return "", fmt.Errorf("file exceeds %d MB limit", maxImageBytes/(1024*1024))
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	mime := http.DetectContentType(head[:n])
	ok := false
	for _, t := range allowedImageTypes {
		if mime == t {
			ok = true
			break
		}
	}
	if !ok {
		return "", fmt.Errorf("unsupported image type %s", mime)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	dir := filepath.Join(baseDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.New().String() + filepath.Ext(fh.Filename)
	full := filepath.Join(dir, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", err
	}
	return filepath.ToSlash(filepath.Join(kind, name)), nil
}
