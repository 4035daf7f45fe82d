// Package blockdev provides the block device abstraction the filesystem
// driver operates on: an address space of fixed 512-byte blocks that can be
// read and written in runs of up to 255 blocks.
package blockdev

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/osdev-kit/fat32/checkpoint"
)

const (
	// BlockSize is the size of a single logical block in bytes.
	BlockSize = 512

	// MaxTransferBlocks is the largest block count a single ReadBlocks or
	// WriteBlocks call may request.
	MaxTransferBlocks = 255
)

// These errors may occur while accessing a device.
var (
	ErrOutOfRange = errors.New("block range outside the device")
	ErrBufferSize = errors.New("buffer length does not match the block count")
)

// Device is a random access array of 512-byte blocks.
// It mainly exists to be able to mock the storage in tests.
// Generated mock using mockgen:
//
//	mockgen -source=blockdev.go -destination=device_mock.go -package blockdev
type Device interface {
	// ReadBlocks reads count blocks starting at the logical block address
	// lba into dst. len(dst) must be exactly count*BlockSize.
	ReadBlocks(dst []byte, lba uint32, count uint8) error

	// WriteBlocks writes count blocks from src starting at the logical
	// block address lba. len(src) must be exactly count*BlockSize.
	WriteBlocks(src []byte, lba uint32, count uint8) error
}

func checkTransfer(buf []byte, count uint8) error {
	if len(buf) != int(count)*BlockSize {
		return checkpoint.From(ErrBufferSize)
	}
	return nil
}

// Memory is a Device backed by a byte slice. The zero value is not usable,
// use NewMemory.
type Memory struct {
	buf []byte
}

// NewMemory returns an in-memory device holding blockCount zeroed blocks.
func NewMemory(blockCount int) *Memory {
	return &Memory{buf: make([]byte, blockCount*BlockSize)}
}

func (m *Memory) ReadBlocks(dst []byte, lba uint32, count uint8) error {
	if err := checkTransfer(dst, count); err != nil {
		return err
	}
	off := int(lba) * BlockSize
	if off+len(dst) > len(m.buf) {
		return checkpoint.From(ErrOutOfRange)
	}
	copy(dst, m.buf[off:])
	return nil
}

func (m *Memory) WriteBlocks(src []byte, lba uint32, count uint8) error {
	if err := checkTransfer(src, count); err != nil {
		return err
	}
	off := int(lba) * BlockSize
	if off+len(src) > len(m.buf) {
		return checkpoint.From(ErrOutOfRange)
	}
	copy(m.buf[off:], src)
	return nil
}

// Size returns the device capacity in blocks.
func (m *Memory) Size() int {
	return len(m.buf) / BlockSize
}

// FileDevice is a Device backed by an image file on an afero filesystem.
// Reads past the current end of the image yield zero bytes, writes grow the
// image as needed, so a fresh image file behaves like blank storage.
type FileDevice struct {
	file       afero.File
	blockCount uint32
}

// OpenFile opens (or creates) the image file at path on fsys as a device
// with blockCount addressable blocks.
func OpenFile(fsys afero.Fs, path string, blockCount uint32) (*FileDevice, error) {
	file, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return &FileDevice{file: file, blockCount: blockCount}, nil
}

func (f *FileDevice) ReadBlocks(dst []byte, lba uint32, count uint8) error {
	if err := checkTransfer(dst, count); err != nil {
		return err
	}
	if lba+uint32(count) > f.blockCount {
		return checkpoint.From(ErrOutOfRange)
	}
	n, err := f.file.ReadAt(dst, int64(lba)*BlockSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return checkpoint.From(err)
	}
	// Anything past the written part of the image reads as zeroes. Partial
	// reads surface as io.EOF or io.ErrUnexpectedEOF depending on the
	// backing file implementation.
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

func (f *FileDevice) WriteBlocks(src []byte, lba uint32, count uint8) error {
	if err := checkTransfer(src, count); err != nil {
		return err
	}
	if lba+uint32(count) > f.blockCount {
		return checkpoint.From(ErrOutOfRange)
	}
	_, err := f.file.WriteAt(src, int64(lba)*BlockSize)
	return checkpoint.From(err)
}

// Close closes the underlying image file.
func (f *FileDevice) Close() error {
	return checkpoint.From(f.file.Close())
}
