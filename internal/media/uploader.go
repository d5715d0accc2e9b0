// Package media stores uploaded images on local disk or a remote upload service.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Stored describes a saved upload.
type Stored struct {
	URL  string
	Path string
}

type Uploader interface {
	Save(ctx context.Context, ext, contentType string, r io.Reader) (Stored, error)
}

// NewName builds a collision-free object name under a date prefix.
func NewName(now time.Time, ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(now.UTC().Format("2006/01"), uuid.NewString()+ext)
}

// LocalUploader writes files under Dir and serves them from BaseURL.
type LocalUploader struct {
	Dir     string
	BaseURL string
	now     func() time.Time
}

func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (u *LocalUploader) Save(ctx context.Context, ext, _ string, r io.Reader) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	name := NewName(u.now(), ext)
	full := filepath.Join(u.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Stored{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return Stored{}, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return Stored{}, fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Stored{}, fmt.Errorf("close upload file: %w", err)
	}
	return Stored{URL: u.BaseURL + "/" + name, Path: full}, nil
}

var ErrNoURL = errors.New("upload response has no url")

// RemoteUploader posts files as multipart to an upload endpoint and reads the URL
// back from its JSON response.
type RemoteUploader struct {
	client   *resty.Client
	endpoint string
	now      func() time.Time
}

func NewRemoteUploader(endpoint, key string) *RemoteUploader {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(0)
	if key != "" {
		client.SetAuthToken(key).SetHeader("apikey", key)
	}
	return &RemoteUploader{client: client, endpoint: endpoint, now: time.Now}
}

func (u *RemoteUploader) Save(ctx context.Context, ext, contentType string, r io.Reader) (Stored, error) {
	name := NewName(u.now(), ext)
	resp, err := u.client.R().
		SetContext(ctx).
		SetMultipartField("file", path.Base(name), contentType, r).
		SetFormData(map[string]string{"path": name}).
		Post(u.endpoint)
	if err != nil {
		return Stored{}, fmt.Errorf("upload request: %w", err)
	}
	if resp.IsError() {
		return Stored{}, fmt.Errorf("upload failed: %s", resp.Status())
	}
	url, ok := ResolveURL(resp.Body())
	if !ok {
		return Stored{}, ErrNoURL
	}
	return Stored{URL: url, Path: name}, nil
}
