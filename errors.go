package fat32

import "errors"

// These errors cover every distinct way a driver operation can fail. All of
// them can be matched with errors.Is on the returned error.
var (
	// ErrParentNotDirectory is returned when the requested parent cluster
	// does not hold a directory table.
	ErrParentNotDirectory = errors.New("parent cluster does not hold a directory")

	// ErrNotADirectory is returned by ReadDirectory when the matched entry
	// is a regular file.
	ErrNotADirectory = errors.New("entry is not a directory")

	// ErrNotAFile is returned by Read when the matched entry is a
	// subdirectory.
	ErrNotAFile = errors.New("entry is not a file")

	// ErrNotFound is returned when no used entry matches the requested name
	// and extension.
	ErrNotFound = errors.New("no entry with that name and extension")

	// ErrAlreadyExists is returned by Write when the parent directory
	// already holds an entry with the requested name and extension.
	ErrAlreadyExists = errors.New("an entry with that name and extension already exists")

	// ErrNoSpace is returned by Write when fewer free clusters remain than
	// the new entry needs.
	ErrNoSpace = errors.New("not enough free clusters")

	// ErrTableFull is returned by Write when the parent directory table has
	// no unused slot left.
	ErrTableFull = errors.New("directory table has no free slot")

	// ErrBufferTooSmall is returned by Read when the request buffer cannot
	// hold the whole file.
	ErrBufferTooSmall = errors.New("buffer is smaller than the file")

	// ErrDirectoryNotEmpty is returned by Delete when the matched
	// subdirectory still holds entries.
	ErrDirectoryNotEmpty = errors.New("directory still has entries")

	// ErrInvalidName is returned when the request name is empty or the name
	// or extension exceed their on-disk 8 and 3 byte fields.
	ErrInvalidName = errors.New("invalid name or extension")

	// ErrIO wraps any failure reported by the underlying block device.
	ErrIO = errors.New("block device failure")

	// ErrCorrupted is returned when a cluster chain leaves the valid data
	// area or does not terminate within the allocation map size.
	ErrCorrupted = errors.New("cluster chain is corrupted")

	// ErrTransferTooLarge is returned when a cluster run would exceed the
	// device's 255-block transfer limit.
	ErrTransferTooLarge = errors.New("cluster run exceeds the block transfer limit")
)
