package media

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

func TestSaveAcceptsDecodableImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	name, err := store.Save(&buf)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("stored name: got %q, want *.png", name)
	}

	f, err := store.Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.Save(strings.NewReader("plain text, not pixels")); !errors.Is(err, ErrNotImage) {
		t.Errorf("Save: got %v, want ErrNotImage", err)
	}
}
