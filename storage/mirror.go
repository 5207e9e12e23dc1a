package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sayidabyan/s-drive-server/logger"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned when a blob has no physical presence even
// though a metadata row pointed at it.
var ErrBlobNotFound = errors.New("stored file not found")

// Mirror keeps physical blob locations in step with the folder/file tree.
// Locations are namespaced by owner id then folder id, never by display
// name, so renames and sibling name reuse never touch the filesystem
// layout: STORAGE_ROOT/<userID>/<folderID>/<filename>.
type Mirror interface {
	// EnsureFolderLocation creates the directory for a (user, folder) pair
	// if absent. Safe to call repeatedly and concurrently.
	EnsureFolderLocation(userID uuid.UUID, folderID uuid.UUID) (string, error)
	// WriteFileBlob replaces the blob content atomically: the bytes land in
	// a temp file first and are renamed into place, so readers never observe
	// a partial write.
	WriteFileBlob(userID uuid.UUID, folderID uuid.UUID, filename string, r io.Reader) (int64, error)
	// BlobPath resolves the blob location, failing with ErrBlobNotFound if
	// nothing is stored there.
	BlobPath(userID uuid.UUID, folderID uuid.UUID, filename string) (string, error)
	// ReadFileBlob opens the blob for streaming reads. Downloads are served
	// by path (BlobPath plus the HTTP layer's file response) so the kernel
	// handles the copy; this accessor is for consumers that need the bytes
	// rather than a location.
	ReadFileBlob(userID uuid.UUID, folderID uuid.UUID, filename string) (io.ReadCloser, error)
	// FolderLocation and UserLocation resolve paths without touching disk.
	FolderLocation(userID uuid.UUID, folderID uuid.UUID) string
	UserLocation(userID uuid.UUID) string
	// DeleteLocation removes a location recursively, best effort. The tree
	// rows are the source of truth; a failure here is logged for operator
	// reconciliation and never surfaced to the caller.
	DeleteLocation(path string)
}

type DiskMirror struct {
	root string
}

func NewDiskMirror(root string) (*DiskMirror, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &DiskMirror{root: abs}, nil
}

func (m *DiskMirror) UserLocation(userID uuid.UUID) string {
	return filepath.Join(m.root, userID.String())
}

func (m *DiskMirror) FolderLocation(userID uuid.UUID, folderID uuid.UUID) string {
	return filepath.Join(m.root, userID.String(), folderID.String())
}

func (m *DiskMirror) EnsureFolderLocation(userID uuid.UUID, folderID uuid.UUID) (string, error) {
	path := m.FolderLocation(userID, folderID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create folder location: %w", err)
	}
	return path, nil
}

func (m *DiskMirror) WriteFileBlob(userID uuid.UUID, folderID uuid.UUID, filename string, r io.Reader) (int64, error) {
	dir, err := m.EnsureFolderLocation(userID, folderID)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close blob: %w", err)
	}

	target := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("publish blob: %w", err)
	}
	return written, nil
}

func (m *DiskMirror) BlobPath(userID uuid.UUID, folderID uuid.UUID, filename string) (string, error) {
	path := filepath.Join(m.FolderLocation(userID, folderID), filename)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrBlobNotFound
		}
		return "", fmt.Errorf("stat blob: %w", err)
	}
	if info.IsDir() {
		return "", ErrBlobNotFound
	}
	return path, nil
}

func (m *DiskMirror) ReadFileBlob(userID uuid.UUID, folderID uuid.UUID, filename string) (io.ReadCloser, error) {
	path, err := m.BlobPath(userID, folderID, filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (m *DiskMirror) DeleteLocation(path string) {
	if path == "" || path == m.root {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		logger.Warnf("storage cleanup failed, leaving residue at %s: %v", path, err)
	}
}
