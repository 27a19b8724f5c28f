// Package backup transfers record store snapshots to a remote GitHub
// repository via its contents API. Uploads are one-shot - failures are
// surfaced with the remote diagnostic and never retried automatically.
package backup

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ayaocrm/crm/internal/config"
	apperrors "github.com/ayaocrm/crm/internal/errors"
)

const defaultAPIBaseURL = "https://api.github.com"
const defaultUploadTimeout = 30 * time.Second

// response bodies can be large on failure, keep diagnostics bounded
const maxDiagnosticBytes = 4 << 10

// Uploader transfers one snapshot blob to remote storage under path
type Uploader interface {
	Upload(ctx context.Context, path string, content []byte, message string) error
}

// GithubUploader uploads file content to a GitHub repository through
// PUT /repos/{repo}/contents/{path}
type GithubUploader struct {
	client  *http.Client
	baseURL string
	cfg     config.BackupCfg
}

// NewGithubUploader builds GithubUploader from backup config
func NewGithubUploader(cfg config.BackupCfg) *GithubUploader {
	return &GithubUploader{
		client:  &http.Client{Timeout: defaultUploadTimeout},
		baseURL: defaultAPIBaseURL,
		cfg:     cfg,
	}
}

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

// Upload pushes content as a new file under path. Missing credentials fail
// fast before any network call. Each upload produces a distinct remote
// artifact - paths are expected to be timestamp-named by the caller.
func (u *GithubUploader) Upload(ctx context.Context, path string, content []byte, message string) error {
	if u.cfg.Token == "" || u.cfg.Repo == "" {
		return errors.New("backup is not configured: GITHUB_TOKEN and GITHUB_REPO are required")
	}

	payload, err := json.Marshal(&contentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  u.cfg.Branch,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/contents/%s", u.baseURL, u.cfg.Repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s", u.cfg.Token))
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return apperrors.NewTransportError(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		diagnostic, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBytes))
		return apperrors.NewTransportError(resp.StatusCode, string(diagnostic))
	}
	return nil
}
