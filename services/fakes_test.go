package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/sayidabyan/s-drive-server/config"
	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
		LoginThrottle: config.LoginThrottleConfig{
			Enabled:       true,
			MaxAttempts:   3,
			WindowSeconds: 60,
		},
	}
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// restorableRepo lets the snapshotting tx manager undo fake-state mutations
// when the transaction callback fails, mimicking a rollback.
type restorableRepo interface {
	snapshot() func()
}

type snapshotTxManager struct {
	repos []restorableRepo
}

func (m snapshotTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	restores := make([]func(), 0, len(m.repos))
	for _, repo := range m.repos {
		restores = append(restores, repo.snapshot())
	}
	err := fn(nil)
	if err != nil {
		for _, restore := range restores {
			restore()
		}
	}
	return err
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]models.User{}}
}

func (r *fakeUserRepo) snapshot() func() {
	saved := make(map[uuid.UUID]models.User, len(r.users))
	for id, user := range r.users {
		saved[id] = user
	}
	return func() { r.users = saved }
}

func (r *fakeUserRepo) CountByUsername(_ context.Context, _ *gorm.DB, username string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Username == username {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *gorm.DB) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) SetTopFolder(_ context.Context, _ *gorm.DB, userID uuid.UUID, folderID uuid.UUID) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	id := folderID
	user.TopFolderID = &id
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, _ *gorm.DB, userID uuid.UUID) error {
	delete(r.users, userID)
	return nil
}

type fakeFolderRepo struct {
	folders map[uuid.UUID]models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: map[uuid.UUID]models.Folder{}}
}

func (r *fakeFolderRepo) snapshot() func() {
	saved := make(map[uuid.UUID]models.Folder, len(r.folders))
	for id, folder := range r.folders {
		saved[id] = folder
	}
	return func() { r.folders = saved }
}

func (r *fakeFolderRepo) GetByIDAndOwner(_ context.Context, _ *gorm.DB, folderID uuid.UUID, ownerID uuid.UUID) (models.Folder, error) {
	folder, ok := r.folders[folderID]
	if !ok || folder.OwnerID != ownerID {
		return models.Folder{}, gorm.ErrRecordNotFound
	}
	return folder, nil
}

func (r *fakeFolderRepo) Create(_ context.Context, _ *gorm.DB, folder *models.Folder) error {
	for _, existing := range r.folders {
		if existing.FolderName == folder.FolderName && equalParent(existing.ParentID, folder.ParentID) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.folders[folder.ID] = *folder
	return nil
}

func equalParent(a *uuid.UUID, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *fakeFolderRepo) ListByParent(_ context.Context, _ *gorm.DB, ownerID uuid.UUID, parentID uuid.UUID) ([]models.Folder, error) {
	var out []models.Folder
	for _, folder := range r.folders {
		if folder.OwnerID == ownerID && folder.ParentID != nil && *folder.ParentID == parentID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FolderName < out[j].FolderName })
	return out, nil
}

func (r *fakeFolderRepo) CountByParentAndName(_ context.Context, _ *gorm.DB, parentID uuid.UUID, name string) (int64, error) {
	var count int64
	for _, folder := range r.folders {
		if folder.ParentID != nil && *folder.ParentID == parentID && folder.FolderName == name {
			count++
		}
	}
	return count, nil
}

func (r *fakeFolderRepo) ListChildIDs(_ context.Context, _ *gorm.DB, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	parents := make(map[uuid.UUID]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []uuid.UUID
	for id, folder := range r.folders {
		if folder.ParentID != nil && parents[*folder.ParentID] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, folderIDs []uuid.UUID) error {
	for _, id := range folderIDs {
		delete(r.folders, id)
	}
	return nil
}

func (r *fakeFolderRepo) DeleteByOwner(_ context.Context, _ *gorm.DB, ownerID uuid.UUID) error {
	for id, folder := range r.folders {
		if folder.OwnerID == ownerID {
			delete(r.folders, id)
		}
	}
	return nil
}

type fakeFileRepo struct {
	files map[uuid.UUID]models.File
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[uuid.UUID]models.File{}}
}

func (r *fakeFileRepo) snapshot() func() {
	saved := make(map[uuid.UUID]models.File, len(r.files))
	for id, file := range r.files {
		saved[id] = file
	}
	return func() { r.files = saved }
}

func (r *fakeFileRepo) GetByIDAndOwner(_ context.Context, _ *gorm.DB, fileID uuid.UUID, ownerID uuid.UUID) (models.File, error) {
	file, ok := r.files[fileID]
	if !ok || file.OwnerID != ownerID {
		return models.File{}, gorm.ErrRecordNotFound
	}
	return file, nil
}

func (r *fakeFileRepo) Create(_ context.Context, _ *gorm.DB, file *models.File) error {
	for _, existing := range r.files {
		if existing.FolderID == file.FolderID && existing.Filename == file.Filename {
			return gorm.ErrDuplicatedKey
		}
	}
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) ListByFolder(_ context.Context, _ *gorm.DB, folderID uuid.UUID) ([]models.File, error) {
	var out []models.File
	for _, file := range r.files {
		if file.FolderID == folderID {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (r *fakeFileRepo) CountByFolderAndName(_ context.Context, _ *gorm.DB, folderID uuid.UUID, filename string) (int64, error) {
	var count int64
	for _, file := range r.files {
		if file.FolderID == folderID && file.Filename == filename {
			count++
		}
	}
	return count, nil
}

func (r *fakeFileRepo) UpdateSize(_ context.Context, _ *gorm.DB, fileID uuid.UUID, size int64) error {
	file, ok := r.files[fileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	file.Size = size
	r.files[fileID] = file
	return nil
}

func (r *fakeFileRepo) DeleteByID(_ context.Context, _ *gorm.DB, fileID uuid.UUID) error {
	delete(r.files, fileID)
	return nil
}

func (r *fakeFileRepo) DeleteByFolderIDs(_ context.Context, _ *gorm.DB, folderIDs []uuid.UUID) error {
	folders := make(map[uuid.UUID]bool, len(folderIDs))
	for _, id := range folderIDs {
		folders[id] = true
	}
	for id, file := range r.files {
		if folders[file.FolderID] {
			delete(r.files, id)
		}
	}
	return nil
}

func (r *fakeFileRepo) DeleteByOwner(_ context.Context, _ *gorm.DB, ownerID uuid.UUID) error {
	for id, file := range r.files {
		if file.OwnerID == ownerID {
			delete(r.files, id)
		}
	}
	return nil
}

type fakeThrottleRepo struct {
	failures map[string]int64
	resets   []string
}

func newFakeThrottleRepo() *fakeThrottleRepo {
	return &fakeThrottleRepo{failures: map[string]int64{}}
}

func (r *fakeThrottleRepo) RegisterFailure(_ context.Context, username string, _ int) (int64, error) {
	r.failures[username]++
	return r.failures[username], nil
}

func (r *fakeThrottleRepo) Reset(_ context.Context, username string) error {
	r.resets = append(r.resets, username)
	delete(r.failures, username)
	return nil
}

// fakeMirror keeps blobs in memory keyed by user/folder/filename.
type fakeMirror struct {
	blobs           map[string][]byte
	ensuredDirs     map[string]bool
	deletedPaths    []string
	ensureErr       error
	writeErr        error
	ensureCallCount int
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{blobs: map[string][]byte{}, ensuredDirs: map[string]bool{}}
}

func blobKey(userID uuid.UUID, folderID uuid.UUID, filename string) string {
	return userID.String() + "/" + folderID.String() + "/" + filename
}

func (m *fakeMirror) UserLocation(userID uuid.UUID) string {
	return userID.String()
}

func (m *fakeMirror) FolderLocation(userID uuid.UUID, folderID uuid.UUID) string {
	return userID.String() + "/" + folderID.String()
}

func (m *fakeMirror) EnsureFolderLocation(userID uuid.UUID, folderID uuid.UUID) (string, error) {
	m.ensureCallCount++
	if m.ensureErr != nil {
		return "", m.ensureErr
	}
	path := m.FolderLocation(userID, folderID)
	m.ensuredDirs[path] = true
	return path, nil
}

func (m *fakeMirror) WriteFileBlob(userID uuid.UUID, folderID uuid.UUID, filename string, r io.Reader) (int64, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.blobs[blobKey(userID, folderID, filename)] = data
	return int64(len(data)), nil
}

func (m *fakeMirror) BlobPath(userID uuid.UUID, folderID uuid.UUID, filename string) (string, error) {
	key := blobKey(userID, folderID, filename)
	if _, ok := m.blobs[key]; !ok {
		return "", storage.ErrBlobNotFound
	}
	return key, nil
}

func (m *fakeMirror) ReadFileBlob(userID uuid.UUID, folderID uuid.UUID, filename string) (io.ReadCloser, error) {
	data, ok := m.blobs[blobKey(userID, folderID, filename)]
	if !ok {
		return nil, storage.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *fakeMirror) DeleteLocation(path string) {
	m.deletedPaths = append(m.deletedPaths, path)
	for key := range m.blobs {
		if key == path || strings.HasPrefix(key, path+"/") {
			delete(m.blobs, key)
		}
	}
	delete(m.ensuredDirs, path)
}

var errBoom = errors.New("boom")
