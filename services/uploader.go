package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yeremiapane/realestate-app/metrics"
	"github.com/yeremiapane/realestate-app/utils"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DiskUploader writes files under Root/<folder>/ with a KSUID name and
// returns "/<folder>/<name>".
type DiskUploader struct {
	Root     string
	MaxBytes int64
	metrics  *metrics.Metrics
}

func NewDiskUploader(root string, maxBytes int64, m *metrics.Metrics) *DiskUploader {
	return &DiskUploader{Root: root, MaxBytes: maxBytes, metrics: m}
}

func (u *DiskUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return "", utils.BadRequest("unsupported file type %q", ext)
	}
	if u.MaxBytes > 0 && file.Size > u.MaxBytes {
		return "", utils.BadRequest("file %s exceeds %d bytes", file.Filename, u.MaxBytes)
	}

	dir := filepath.Join(u.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: create %s: %w", dir, err)
	}

	name := utils.NewKSUID() + ext
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("upload: create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("upload: close file: %w", err)
	}

	u.metrics.Uploaded(folder, 1)
	return path.Join("/", folder, name), nil
}

// Remove deletes a file previously returned by Upload. Missing files are
// ignored.
func (u *DiskUploader) Remove(ctx context.Context, publicPath string) error {
	clean := path.Clean("/" + publicPath)
	err := os.Remove(filepath.Join(u.Root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// uploadAll stores every file, removing the ones already written if a later
// one fails.
func uploadAll(ctx context.Context, uploader Uploader, files []*multipart.FileHeader, folder string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		p, err := uploader.Upload(ctx, file, folder)
		if err != nil {
			for _, done := range paths {
				if rmErr := uploader.Remove(ctx, done); rmErr != nil {
					utils.ErrorLogger.Printf("Failed to clean up %s: %v", done, rmErr)
				}
			}
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
