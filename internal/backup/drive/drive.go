// Package drive stores snapshots as JSON documents in a Google Drive folder,
// one file per user, authenticated with a user OAuth token obtained via
// cmd/oauth-init.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"

	"moneta/internal/backup"
	"moneta/internal/config"
)

type Store struct {
	svc    *gdrive.Service
	folder string

	// cached folder id, resolved lazily on first use
	folderID string
}

var _ backup.Store = (*Store)(nil)

// New builds a Drive store from OAuth client credentials plus a previously
// saved user token. Inline JSON takes precedence over file paths.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	clientJSON, err := readCredential(cfg.GoogleOAuthClientJSON, cfg.GoogleOAuthClientFile, "OAuth client")
	if err != nil {
		return nil, err
	}
	tokenJSON, err := readCredential(cfg.GoogleOAuthTokenJSON, cfg.GoogleOAuthTokenFile, "OAuth token")
	if err != nil {
		return nil, err
	}

	oauthCfg, err := google.ConfigFromJSON(clientJSON, gdrive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gdrive.NewService(ctx, goption.WithTokenSource(oauthCfg.TokenSource(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Store{svc: svc, folder: cfg.GoogleDriveFolder}, nil
}

func readCredential(inline, path, what string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, fmt.Errorf("missing %s credentials", what)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", what, err)
	}
	return b, nil
}

func (s *Store) Upload(ctx context.Context, userID string, snap *backup.Snapshot) error {
	folderID, err := s.ensureFolder(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	name := snapshotName(userID)
	existing, err := s.findFile(ctx, folderID, name)
	if err != nil {
		return err
	}

	media := bytes.NewReader(body)
	if existing != "" {
		_, err = s.svc.Files.Update(existing, &gdrive.File{}).
			Media(media).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update snapshot file: %w", err)
		}
		return nil
	}
	_, err = s.svc.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{folderID},
	}).Media(media).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	return nil
}

func (s *Store) Download(ctx context.Context, userID string) (*backup.Snapshot, error) {
	folderID, err := s.ensureFolder(ctx)
	if err != nil {
		return nil, err
	}
	fileID, err := s.findFile(ctx, folderID, snapshotName(userID))
	if err != nil {
		return nil, err
	}
	if fileID == "" {
		return nil, backup.ErrNoSnapshot
	}

	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 404 {
			return nil, backup.ErrNoSnapshot
		}
		return nil, fmt.Errorf("download snapshot: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	var snap backup.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// ensureFolder resolves the backup folder id, creating the folder on first
// upload for a fresh account.
func (s *Store) ensureFolder(ctx context.Context) (string, error) {
	if s.folderID != "" {
		return s.folderID, nil
	}
	q := fmt.Sprintf("name = %s and mimeType = 'application/vnd.google-apps.folder' and trashed = false",
		quoteQueryValue(s.folder))
	list, err := s.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find backup folder: %w", err)
	}
	if len(list.Files) > 0 {
		s.folderID = list.Files[0].Id
		return s.folderID, nil
	}
	created, err := s.svc.Files.Create(&gdrive.File{
		Name:     s.folder,
		MimeType: "application/vnd.google-apps.folder",
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create backup folder: %w", err)
	}
	s.folderID = created.Id
	return s.folderID, nil
}

func (s *Store) findFile(ctx context.Context, folderID, name string) (string, error) {
	q := fmt.Sprintf("name = %s and %s in parents and trashed = false",
		quoteQueryValue(name), quoteQueryValue(folderID))
	list, err := s.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find snapshot file: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func snapshotName(userID string) string {
	return userID + ".json"
}

// quoteQueryValue escapes a value for a Drive query string literal.
func quoteQueryValue(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
}
