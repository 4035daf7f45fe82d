package fat32

import "errors"

// Kernel-side callers report each operation's outcome as a small signed
// code instead of an error value. These helpers translate the driver's
// errors into those codes for callers sitting on that boundary, such as an
// interrupt-driven syscall layer.

// ReadDirectoryCode maps a ReadDirectory error to the legacy result code:
// 0 success, 1 target is not a folder, 2 not found, -1 anything else.
func ReadDirectoryCode(err error) int8 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotADirectory):
		return 1
	case errors.Is(err, ErrNotFound):
		return 2
	default:
		return -1
	}
}

// ReadCode maps a Read error to the legacy result code: 0 success, 1 not a
// file, 2 buffer too small, 3 not found, -1 anything else.
func ReadCode(err error) int8 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotAFile):
		return 1
	case errors.Is(err, ErrBufferTooSmall):
		return 2
	case errors.Is(err, ErrNotFound):
		return 3
	default:
		return -1
	}
}

// WriteCode maps a Write error to the legacy result code: 0 success, 1
// already exists, 2 invalid name, -1 anything else.
func WriteCode(err error) int8 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrAlreadyExists):
		return 1
	case errors.Is(err, ErrInvalidName):
		return 2
	default:
		return -1
	}
}

// DeleteCode maps a Delete error to the legacy result code: 0 success, 1 not
// found, 2 folder not empty, -1 anything else.
func DeleteCode(err error) int8 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound):
		return 1
	case errors.Is(err, ErrDirectoryNotEmpty):
		return 2
	default:
		return -1
	}
}
