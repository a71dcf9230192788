// Package uploads names and stores teacher documents (profile image, CV)
// in a storage.Store and returns the key recorded on the teacher.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Info describes a stored upload.
type Info struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

// Upload stores r under "<category>/YYYY/MM/<uuid8>-<sanitized name>".
func Upload(ctx context.Context, store storage.Store, category, filename string, r io.Reader, size int64, contentType string) (Info, error) {
	now := time.Now().UTC()
	key := path.Join(
		strings.Trim(category, "/"),
		fmt.Sprintf("%04d/%02d", now.Year(), now.Month()),
		uuid.NewString()[:8]+"-"+SanitizeFilename(filename),
	)
	opts := &storage.PutOptions{ContentType: contentType}
	if err := store.Put(ctx, key, r, opts); err != nil {
		return Info{}, fmt.Errorf("upload %s: %w", category, err)
	}
	return Info{Path: key, FileName: filename, Size: size, ContentType: contentType}, nil
}

// Discard deletes stored keys, logging failures. Empty keys are skipped.
func Discard(ctx context.Context, store storage.Store, logger *zap.Logger, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := store.Delete(ctx, k); err != nil {
			logger.Warn("failed to delete orphaned upload", zap.String("path", k), zap.Error(err))
		}
	}
}

// SanitizeFilename keeps the base name, replaces anything outside
// [A-Za-z0-9._-] with '_', and caps the length at 100 bytes while keeping
// a short extension.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			b = append(b, c)
		default:
			b = append(b, '_')
		}
	}
	if len(b) == 0 {
		return "file"
	}
	if len(b) > 100 {
		ext := filepath.Ext(string(b))
		if ext != "" && len(ext) < 10 {
			b = append(b[:100-len(ext)], ext...)
		} else {
			b = b[:100]
		}
	}
	return string(b)
}
