package upload

import (
	"strings"
	"testing"
)

var (
	jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngHead  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	gifHead  = []byte("GIF89a")
	webpHead = append([]byte("RIFF\x00\x00\x00\x00WEBP"), []byte("VP8 ")...)
)

func TestValidateImageBySniff(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		head     []byte
		wantMime string
		wantErr  bool
	}{
		{name: "jpeg", filename: "photo.jpg", head: jpegHead, wantMime: "image/jpeg"},
		{name: "jpeg alt ext", filename: "photo.JPEG", head: jpegHead, wantMime: "image/jpeg"},
		{name: "png", filename: "board.png", head: pngHead, wantMime: "image/png"},
		{name: "gif", filename: "anim.gif", head: gifHead, wantMime: "image/gif"},
		{name: "webp", filename: "pic.webp", head: webpHead, wantMime: "image/webp"},
		{name: "avif sniffed as octet-stream", filename: "pic.avif", head: []byte{0x00, 0x00, 0x00, 0x1C}, wantMime: "application/octet-stream"},
		{name: "bad extension", filename: "notes.txt", head: jpegHead, wantErr: true},
		{name: "no extension", filename: "photo", head: jpegHead, wantErr: true},
		{name: "svg blocked by extension", filename: "vector.svg", head: []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"), wantErr: true},
		{name: "html masquerading as jpg", filename: "photo.jpg", head: []byte("<!DOCTYPE html><html><body>hi</body></html>"), wantErr: true},
		{name: "xml masquerading as png", filename: "board.png", head: []byte("<?xml version=\"1.0\"?><svg></svg>"), wantErr: true},
		{name: "plain text masquerading as jpg", filename: "photo.jpg", head: []byte("hello world, definitely not an image"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := ValidateImageBySniff(tt.filename, tt.head)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got mime %q", mime)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mime != tt.wantMime {
				t.Fatalf("mime = %q, want %q", mime, tt.wantMime)
			}
		})
	}
}

func TestValidateImageBySniffErrorMessages(t *testing.T) {
	_, err := ValidateImageBySniff("doc.pdf", []byte("%PDF-1.7"))
	if err == nil || !strings.Contains(err.Error(), "JPG") {
		t.Fatalf("extension rejection should name the allowed types, got %v", err)
	}
}
