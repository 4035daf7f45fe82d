package fat32

import (
	"os"
	"strings"
	"time"

	"github.com/osdev-kit/fat32/checkpoint"
)

// FileInfo adapts the entry to os.FileInfo for listings.
func (e *DirectoryEntry) FileInfo() os.FileInfo {
	return entryFileInfo{*e}
}

type entryFileInfo struct {
	entry DirectoryEntry
}

func (e entryFileInfo) Name() string {
	name := strings.TrimRight(string(e.entry.Name[:]), " ")
	ext := strings.TrimRight(string(e.entry.Ext[:]), " ")

	if ext != "" {
		name += "."
	}

	return name + ext
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir
	}
	return 0
}

func (e entryFileInfo) ModTime() time.Time {
	date := ParseDate(e.entry.ModifiedDate)
	modTime := ParseTime(e.entry.ModifiedTime)

	// A zero date means the stamp was never written.
	if date.IsZero() {
		return time.Time{}
	}

	return time.Date(date.Year(), date.Month(), date.Day(), modTime.Hour(), modTime.Minute(), modTime.Second(), 0, time.UTC)
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}

// List returns a FileInfo for every used entry of the directory table at the
// given cluster, excluding the self entry.
func (d *Driver) List(cluster uint32) ([]os.FileInfo, error) {
	if !validCluster(cluster) {
		return nil, checkpoint.From(ErrParentNotDirectory)
	}

	var table DirectoryTable
	if err := d.loadCluster(&table, cluster); err != nil {
		return nil, err
	}
	if !table.IsDirectory() {
		return nil, checkpoint.From(ErrParentNotDirectory)
	}

	var infos []os.FileInfo
	for i := 1; i < DirectoryEntryCount; i++ {
		if table.Entries[i].IsUsed() {
			infos = append(infos, table.Entries[i].FileInfo())
		}
	}
	return infos, nil
}
