package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"USE_REMOTE_STORAGE", "REMOTE_STORE", "REMOTE_NAMESPACE", "LOCAL_STORE_DIR", "ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.UseRemoteStorage {
		t.Fatalf("expected local storage by default")
	}
	if cfg.RemoteStore != "cloudinary" {
		t.Fatalf("RemoteStore = %q, want cloudinary", cfg.RemoteStore)
	}
	if cfg.RemoteNamespace != "lawyerup" {
		t.Fatalf("RemoteNamespace = %q, want lawyerup", cfg.RemoteNamespace)
	}
	if cfg.LocalStoreDir != "." {
		t.Fatalf("LocalStoreDir = %q, want .", cfg.LocalStoreDir)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
}

func TestLoadStorageToggle(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USE_REMOTE_STORAGE", "true")
	t.Setenv("REMOTE_STORE", "S3")
	t.Setenv("REMOTE_NAMESPACE", "/acme/")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com/")

	cfg := Load()
	if !cfg.UseRemoteStorage {
		t.Fatalf("expected remote storage")
	}
	if cfg.RemoteStore != "s3" {
		t.Fatalf("RemoteStore = %q, want s3", cfg.RemoteStore)
	}
	if cfg.RemoteNamespace != "acme" {
		t.Fatalf("RemoteNamespace = %q, want acme", cfg.RemoteNamespace)
	}
	if cfg.S3PublicBaseURL != "https://cdn.example.com" {
		t.Fatalf("S3PublicBaseURL = %q", cfg.S3PublicBaseURL)
	}
}

func TestLoadInvalidBoolFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USE_REMOTE_STORAGE", "sometimes")

	if Load().UseRemoteStorage {
		t.Fatalf("expected fallback to local storage")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// t.Setenv registers the restore; unset so godotenv may fill it.
	t.Setenv("REMOTE_NAMESPACE", "")
	os.Unsetenv("REMOTE_NAMESPACE")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REMOTE_NAMESPACE=fromfile\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if got := Load().RemoteNamespace; got != "fromfile" {
		t.Fatalf("RemoteNamespace = %q, want fromfile", got)
	}
}
