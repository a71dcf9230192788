package uploads

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cv.pdf", "cv.pdf"},
		{"My CV (final).pdf", "My_CV__final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\photo.jpg`, "photo.jpg"},
		{"", "file"},
		{strings.Repeat("a", 150) + ".png", strings.Repeat("a", 96) + ".png"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpload_Local(t *testing.T) {
	store, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	info, err := Upload(ctx, store, "teachers/cv", "My CV.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	re := regexp.MustCompile(`^teachers/cv/\d{4}/\d{2}/[0-9a-f]{8}-My_CV\.pdf$`)
	if !re.MatchString(info.Path) {
		t.Errorf("Path = %q", info.Path)
	}
	data, err := store.GetBytes(ctx, info.Path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("stored = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	store := storage.NewMemory(storage.MemoryConfig{})
	ctx := context.Background()

	info, err := Upload(ctx, store, "teachers/images", "me.png", strings.NewReader("png"), 3, "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	Discard(ctx, store, zap.NewNop(), info.Path, "")

	exists, err := store.Exists(ctx, info.Path)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected upload to be deleted")
	}
}
