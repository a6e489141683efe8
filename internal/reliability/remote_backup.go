package reliability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Archive names look like aether-backup-2026-01-08-143022.tar.gz.
const (
	archivePrefix   = "aether-backup-"
	archiveSuffix   = ".tar.gz"
	timestampLayout = "2006-01-02-150405"

	minBackupsToKeep = 3
)

// Object is one entry of an object store listing.
type Object struct {
	Key  string
	Size int64
}

// ObjectStore is the subset of an S3-compatible bucket the backups need.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}

// BackupInfo describes a backup stored remotely.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// RemoteBackupService uploads backup archives to an object store and rotates
// old ones.
type RemoteBackupService struct {
	backups       *BackupService
	store         ObjectStore
	stagingRoot   string
	retentionDays int
	now           func() time.Time
	log           zerolog.Logger
}

// NewRemoteBackupService creates the service. Archives are staged in a
// temporary directory below stagingRoot. retentionDays of 0 keeps every
// backup.
func NewRemoteBackupService(backups *BackupService, store ObjectStore, stagingRoot string, retentionDays int, log zerolog.Logger) *RemoteBackupService {
	return &RemoteBackupService{
		backups:       backups,
		store:         store,
		stagingRoot:   stagingRoot,
		retentionDays: retentionDays,
		now:           time.Now,
		log:           log.With().Str("service", "remote_backup").Logger(),
	}
}

// CreateAndUpload builds a fresh archive and uploads it.
func (s *RemoteBackupService) CreateAndUpload(ctx context.Context) (BackupInfo, error) {
	start := s.now()
	s.log.Info().Strs("databases", s.backups.DatabaseNames()).Msg("Starting backup")

	stagingDir, err := os.MkdirTemp(s.stagingRoot, "backup-staging-")
	if err != nil {
		return BackupInfo{}, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	timestamp := start.UTC()
	archiveName := archivePrefix + timestamp.Format(timestampLayout) + archiveSuffix

	archivePath, _, err := s.backups.CreateArchive(ctx, stagingDir, archiveName, timestamp)
	if err != nil {
		return BackupInfo{}, err
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	info, err := archive.Stat()
	if err != nil {
		return BackupInfo{}, fmt.Errorf("failed to stat archive: %w", err)
	}

	if err := s.store.Upload(ctx, archiveName, archive); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to upload backup: %w", err)
	}

	s.log.Info().
		Str("archive", archiveName).
		Int64("size_bytes", info.Size()).
		Dur("duration_ms", s.now().Sub(start)).
		Msg("Backup uploaded")

	return BackupInfo{Filename: archiveName, Timestamp: timestamp.Truncate(time.Second), SizeBytes: info.Size()}, nil
}

// ListBackups returns the stored backups, newest first. Keys that do not
// follow the archive naming scheme are ignored.
func (s *RemoteBackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	now := s.now()
	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		ts, ok := parseArchiveName(obj.Key)
		if !ok {
			s.log.Debug().Str("key", obj.Key).Msg("Skipping unrecognised object")
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  obj.Key,
			Timestamp: ts,
			SizeBytes: obj.Size,
			AgeHours:  int64(now.Sub(ts).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// RotateOldBackups deletes backups older than the retention period. The
// newest three are always kept. It returns the number deleted.
func (s *RemoteBackupService) RotateOldBackups(ctx context.Context) (int, error) {
	if s.retentionDays == 0 {
		return 0, nil
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= minBackupsToKeep {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	deleted := 0
	for _, backup := range backups[minBackupsToKeep:] {
		if !backup.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, backup.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Backup rotation completed")
	return deleted, nil
}

// BackupAndRotate uploads a new backup and then rotates old ones.
func (s *RemoteBackupService) BackupAndRotate(ctx context.Context) error {
	if _, err := s.CreateAndUpload(ctx); err != nil {
		return err
	}
	if _, err := s.RotateOldBackups(ctx); err != nil {
		return fmt.Errorf("backup uploaded but rotation failed: %w", err)
	}
	return nil
}

func parseArchiveName(key string) (time.Time, bool) {
	if !strings.HasPrefix(key, archivePrefix) || !strings.HasSuffix(key, archiveSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(key, archivePrefix), archiveSuffix)
	ts, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
