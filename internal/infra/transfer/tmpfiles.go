// Package transfer moves media between local disk and the anonymous
// temporary file host that vendor APIs fetch sources from.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/ports/adapter"
	"resolve-ai-agent/internal/infra/metrics"
)

var _ adapter.FileTransfer = (*TmpFilesClient)(nil)

// TmpFilesClient uploads to tmpfiles.org and downloads from arbitrary
// HTTPS URLs. Upload responses carry a browsable landing-page URL which
// must be rewritten into the direct-download form before a vendor sees it.
type TmpFilesClient struct {
	uploadURL string
	client    *http.Client
}

func NewTmpFilesClient(uploadURL string) *TmpFilesClient {
	if uploadURL == "" {
		uploadURL = "https://tmpfiles.org/api/v1/upload"
	}
	return &TmpFilesClient{
		uploadURL: uploadURL,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (t *TmpFilesClient) Upload(ctx context.Context, localPath string) (string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, localPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrTransfer, localPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		metrics.ObserveTransfer("upload", 0, false)
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveTransfer("upload", 0, false)
		return "", fmt.Errorf("%w: upload http %d", domain.ErrTransfer, resp.StatusCode)
	}

	var payload struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveTransfer("upload", 0, false)
		return "", fmt.Errorf("%w: decode upload response: %v", domain.ErrTransfer, err)
	}
	if payload.Data.URL == "" {
		metrics.ObserveTransfer("upload", 0, false)
		return "", fmt.Errorf("%w: upload response carried no url", domain.ErrTransfer)
	}

	metrics.ObserveTransfer("upload", info.Size(), true)
	return DirectURL(payload.Data.URL), nil
}

func (t *TmpFilesClient) Download(ctx context.Context, remoteURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		metrics.ObserveTransfer("download", 0, false)
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveTransfer("download", 0, false)
		return fmt.Errorf("%w: download http %d", domain.ErrTransfer, resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		metrics.ObserveTransfer("download", 0, false)
		return fmt.Errorf("%w: create %s: %v", domain.ErrTransfer, localPath, err)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		metrics.ObserveTransfer("download", n, false)
		return fmt.Errorf("%w: write %s: %v", domain.ErrTransfer, localPath, err)
	}
	metrics.ObserveTransfer("download", n, true)
	return nil
}

// DirectURL rewrites a tmpfiles landing-page URL into its direct-download
// form and forces https. Vendors reject landing pages and plain http.
func DirectURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	if strings.Contains(u, "tmpfiles.org/") && !strings.Contains(u, "tmpfiles.org/dl/") {
		u = strings.Replace(u, "tmpfiles.org/", "tmpfiles.org/dl/", 1)
	}
	return u
}
