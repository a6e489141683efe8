// Package reliability takes consistent snapshots of the databases and ships
// them to S3-compatible object storage.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/database"
)

const metadataFile = "backup-metadata.json"

// BackupMetadata describes the contents of one backup archive.
type BackupMetadata struct {
	Timestamp time.Time          `json:"timestamp"`
	Version   string             `json:"version"`
	Databases []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata describes a single database inside a backup archive.
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupService snapshots databases with VACUUM INTO and packs them into a
// tar.gz archive together with a metadata file.
type BackupService struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewBackupService creates a backup service over the given databases.
func NewBackupService(log zerolog.Logger, databases ...*database.DB) *BackupService {
	return &BackupService{
		databases: databases,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

// DatabaseNames returns the names of the databases covered by a backup.
func (s *BackupService) DatabaseNames() []string {
	names := make([]string, 0, len(s.databases))
	for _, db := range s.databases {
		names = append(names, db.Name())
	}
	return names
}

// BackupDatabase writes a consistent copy of db to destPath. The
// destination must not exist.
func (s *BackupService) BackupDatabase(ctx context.Context, db *database.DB, destPath string) error {
	quoted := strings.ReplaceAll(destPath, "'", "''")
	if _, err := db.Conn().ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", quoted)); err != nil {
		return fmt.Errorf("VACUUM INTO failed for %s: %w", db.Name(), err)
	}
	return nil
}

// CreateArchive snapshots every database into stagingDir and writes
// archiveName there. It returns the archive path and its metadata.
func (s *BackupService) CreateArchive(ctx context.Context, stagingDir, archiveName string, now time.Time) (string, BackupMetadata, error) {
	metadata := BackupMetadata{
		Timestamp: now.UTC(),
		Version:   "1",
		Databases: make([]DatabaseMetadata, 0, len(s.databases)),
	}

	files := make([]string, 0, len(s.databases)+1)
	for _, db := range s.databases {
		filename := db.Name() + ".db"
		path := filepath.Join(stagingDir, filename)

		s.log.Debug().Str("database", db.Name()).Msg("Backing up database")
		if err := s.BackupDatabase(ctx, db, path); err != nil {
			return "", BackupMetadata{}, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return "", BackupMetadata{}, fmt.Errorf("failed to stat %s backup: %w", db.Name(), err)
		}
		checksum, err := fileChecksum(path)
		if err != nil {
			return "", BackupMetadata{}, fmt.Errorf("failed to checksum %s backup: %w", db.Name(), err)
		}

		metadata.Databases = append(metadata.Databases, DatabaseMetadata{
			Name:      db.Name(),
			Filename:  filename,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
		files = append(files, filename)
	}

	if err := writeMetadata(filepath.Join(stagingDir, metadataFile), metadata); err != nil {
		return "", BackupMetadata{}, fmt.Errorf("failed to write metadata: %w", err)
	}
	files = append(files, metadataFile)

	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, stagingDir, files); err != nil {
		return "", BackupMetadata{}, fmt.Errorf("failed to create archive: %w", err)
	}
	return archivePath, metadata, nil
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func createArchive(archivePath, sourceDir string, files []string) (err error) {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := archiveFile.Close(); err == nil {
			err = cerr
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range files {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}

func addFileToArchive(tarWriter *tar.Writer, path, nameInArchive string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    0o600,
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tarWriter, file)
	return err
}
