package storage

import "testing"

func TestLoadConfig(t *testing.T) {
	t.Setenv("S3_STORAGE_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET_NAME", "blu-media")
	t.Setenv("S3_REGION", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.IsEnabled() {
		t.Fatal("expected storage enabled")
	}
	if cfg.GetBucketName() != "blu-media" {
		t.Fatalf("bucket = %q", cfg.GetBucketName())
	}
}

func TestLoadConfigRejectsIncompleteCredentials(t *testing.T) {
	t.Setenv("S3_STORAGE_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "")
	t.Setenv("S3_BUCKET_NAME", "blu-media")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing secret key")
	}
}

func TestLoadConfigDisabledSkipsValidation(t *testing.T) {
	t.Setenv("S3_STORAGE_ENABLED", "false")
	t.Setenv("S3_ACCESS_KEY_ID", "")
	t.Setenv("S3_SECRET_ACCESS_KEY", "")
	t.Setenv("S3_BUCKET_NAME", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("disabled config must load: %v", err)
	}
	if cfg.IsEnabled() {
		t.Fatal("expected storage disabled")
	}
}

func TestGetObjectKey(t *testing.T) {
	cfg := &Config{}
	got := cfg.GetObjectKey("moodboards", "0b7c0f3a-1111-2222-3333-444455556666", ".jpg", 2026, 8)
	want := "moodboards/2026/08/0b7c0f3a-1111-2222-3333-444455556666.jpg"
	if got != want {
		t.Fatalf("GetObjectKey = %q, want %q", got, want)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "cdn base url wins",
			cfg:  Config{PublicBaseURL: "https://cdn.example.com/", BucketName: "b", EndpointURL: "https://minio.local"},
			want: "https://cdn.example.com/moodboards/2026/08/x.jpg",
		},
		{
			name: "custom endpoint",
			cfg:  Config{EndpointURL: "https://minio.local/", BucketName: "blu-media"},
			want: "https://minio.local/blu-media/moodboards/2026/08/x.jpg",
		},
		{
			name: "aws default",
			cfg:  Config{BucketName: "blu-media", Region: "ap-south-1"},
			want: "https://blu-media.s3.ap-south-1.amazonaws.com/moodboards/2026/08/x.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.PublicURL("moodboards/2026/08/x.jpg"); got != tt.want {
				t.Fatalf("PublicURL = %q, want %q", got, tt.want)
			}
		})
	}
}
