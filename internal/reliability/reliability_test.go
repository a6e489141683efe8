package reliability

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherwealth/aether/internal/config"
	testingpkg "github.com/aetherwealth/aether/internal/testing"
)

type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleteErr map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, deleteErr: map[string]error{}}
}

func (m *memoryStore) Upload(_ context.Context, key string, body io.Reader) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) List(_ context.Context, prefix string) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Object
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, Object{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	if err := m.deleteErr[key]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newService(t *testing.T, store ObjectStore, retentionDays int, now time.Time) *RemoteBackupService {
	t.Helper()
	wealth := testingpkg.NewTestDB(t, "wealth")
	auth := testingpkg.NewTestDB(t, "auth")
	_, err := wealth.Conn().Exec(
		`INSERT INTO assets (id, user_id, type, name, value, meta, created_at, updated_at)
		 VALUES ('a-1', 'u-1', 'BOND', 'Backup Bond', '100', '{}', 0, 0)`)
	require.NoError(t, err)

	svc := NewRemoteBackupService(NewBackupService(zerolog.Nop(), wealth, auth), store, t.TempDir(), retentionDays, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	files := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[hdr.Name] = body
	}
	return files
}

func TestCreateAndUpload(t *testing.T) {
	store := newMemoryStore()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	svc := newService(t, store, 30, now)

	info, err := svc.CreateAndUpload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "aether-backup-2026-03-14-092653.tar.gz", info.Filename)
	assert.Equal(t, []string{info.Filename}, store.keys())
	assert.Positive(t, info.SizeBytes)

	files := readArchive(t, store.objects[info.Filename])
	require.Contains(t, files, "wealth.db")
	require.Contains(t, files, "auth.db")
	require.Contains(t, files, metadataFile)

	var meta BackupMetadata
	require.NoError(t, json.Unmarshal(files[metadataFile], &meta))
	assert.True(t, meta.Timestamp.Equal(now))
	require.Len(t, meta.Databases, 2)
	assert.Equal(t, "wealth", meta.Databases[0].Name)
	assert.Equal(t, int64(len(files["wealth.db"])), meta.Databases[0].SizeBytes)
	assert.True(t, strings.HasPrefix(meta.Databases[0].Checksum, "sha256:"))
	assert.True(t, bytes.HasPrefix(files["wealth.db"], []byte("SQLite format 3")))
}

func TestCreateAndUpload_UploadError(t *testing.T) {
	store := newMemoryStore()
	store.uploadErr = errors.New("bucket unreachable")
	svc := newService(t, store, 30, time.Now())

	_, err := svc.CreateAndUpload(context.Background())

	assert.ErrorContains(t, err, "bucket unreachable")
}

func TestListBackups_NewestFirstAndSkipsForeignKeys(t *testing.T) {
	store := newMemoryStore()
	store.objects["aether-backup-2026-01-01-000000.tar.gz"] = []byte("a")
	store.objects["aether-backup-2026-02-01-000000.tar.gz"] = []byte("bb")
	store.objects["aether-backup-notes.txt"] = []byte("x")
	store.objects["aether-backup-garbage.tar.gz"] = []byte("x")
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	svc := newService(t, store, 30, now)

	backups, err := svc.ListBackups(context.Background())
	require.NoError(t, err)

	require.Len(t, backups, 2)
	assert.Equal(t, "aether-backup-2026-02-01-000000.tar.gz", backups[0].Filename)
	assert.Equal(t, int64(2), backups[0].SizeBytes)
	assert.Equal(t, int64(24), backups[0].AgeHours)
}

func TestRotateOldBackups(t *testing.T) {
	seed := func(store *memoryStore, days ...int) {
		base := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
		for _, d := range days {
			key := archivePrefix + base.AddDate(0, 0, -d).Format(timestampLayout) + archiveSuffix
			store.objects[key] = []byte("x")
		}
	}
	now := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("deletes beyond retention but keeps newest three", func(t *testing.T) {
		store := newMemoryStore()
		seed(store, 1, 40, 50, 60, 70)
		svc := newService(t, store, 30, now)

		deleted, err := svc.RotateOldBackups(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, deleted)
		assert.Len(t, store.keys(), 3)
	})

	t.Run("keeps recent backups", func(t *testing.T) {
		store := newMemoryStore()
		seed(store, 1, 2, 3, 4, 5)
		svc := newService(t, store, 30, now)

		deleted, err := svc.RotateOldBackups(context.Background())
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		store := newMemoryStore()
		seed(store, 100, 200, 300, 400)
		svc := newService(t, store, 0, now)

		deleted, err := svc.RotateOldBackups(context.Background())
		require.NoError(t, err)
		assert.Zero(t, deleted)
		assert.Len(t, store.keys(), 4)
	})

	t.Run("delete failures are skipped", func(t *testing.T) {
		store := newMemoryStore()
		seed(store, 1, 2, 3, 40, 50)
		failing := archivePrefix + now.AddDate(0, 0, -40).Format(timestampLayout) + archiveSuffix
		store.deleteErr[failing] = errors.New("denied")
		svc := newService(t, store, 30, now)

		deleted, err := svc.RotateOldBackups(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)
		assert.Contains(t, store.keys(), failing)
	})
}

func TestBackupAndRotate(t *testing.T) {
	store := newMemoryStore()
	now := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
	for _, d := range []int{1, 2, 3, 90} {
		store.objects[archivePrefix+now.AddDate(0, 0, -d).Format(timestampLayout)+archiveSuffix] = []byte("x")
	}
	svc := newService(t, store, 30, now)

	require.NoError(t, svc.BackupAndRotate(context.Background()))

	keys := store.keys()
	assert.Len(t, keys, 4)
	assert.Contains(t, keys, "aether-backup-2026-06-30-120000.tar.gz")
}

func TestNewS3Store(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.BackupConfig{})
	assert.Error(t, err)

	store, err := NewS3Store(context.Background(), config.BackupConfig{
		Bucket:          "aether-backups",
		Endpoint:        "http://127.0.0.1:9000",
		Region:          "auto",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "aether-backups", store.Bucket())
}
