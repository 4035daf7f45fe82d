// File model contains the structs and constants which match the direct
// on-disk structures of the filesystem.

package fat32

import (
	"bytes"

	"github.com/osdev-kit/fat32/blockdev"
)

const (
	// ClusterBlockCount is the number of 512-byte blocks per cluster.
	ClusterBlockCount = 4

	// ClusterSize is the size of a single cluster in bytes.
	ClusterSize = ClusterBlockCount * blockdev.BlockSize

	// ClusterMapSize is the number of entries in the file allocation table.
	// The whole table occupies exactly one cluster.
	ClusterMapSize = ClusterSize / 4

	// BootBlockNumber is the logical block address holding the boot
	// signature.
	BootBlockNumber = 0

	// FATClusterNumber is the cluster holding the file allocation table.
	FATClusterNumber = 1

	// RootClusterNumber is the cluster holding the root directory table.
	RootClusterNumber = 2

	// reservedClusters are the cluster numbers below which no file data may
	// ever be allocated (the two sentinel entries).
	reservedClusters = 2
)

const (
	// AttrSubdirectory marks a directory entry as a subdirectory instead of
	// a regular file.
	AttrSubdirectory = 0x10

	// uattrUsed is the user-attribute value marking a directory entry slot
	// as occupied. Anything else means the slot is free.
	uattrUsed = 0x8A
)

// fatEntry is a single value of the file allocation table. It either marks
// its cluster as unallocated, as the terminal cluster of a chain, or holds
// the number of the next cluster in the chain.
type fatEntry uint32

const (
	fatEmpty        fatEntry = 0x00000000
	fatReservedZero fatEntry = 0x0FFFFFF0
	fatReservedOne  fatEntry = 0x0FFFFFFF
	fatEndOfChain   fatEntry = 0xFFFFFFFF
)

func (e fatEntry) IsEmpty() bool {
	return e == fatEmpty
}

func (e fatEntry) IsEndOfChain() bool {
	return e == fatEndOfChain
}

// IsNext reports whether the entry points at a valid next cluster inside the
// data area of the map.
func (e fatEntry) IsNext() bool {
	return e >= reservedClusters && e < ClusterMapSize
}

// AllocationTable is the in-memory mirror of the on-disk file allocation
// table. Its binary encoding is exactly one cluster.
type AllocationTable struct {
	Map [ClusterMapSize]fatEntry
}

// freeClusters returns the count of unallocated clusters in the data area.
func (t *AllocationTable) freeClusters() uint32 {
	var n uint32
	for i := reservedClusters; i < ClusterMapSize; i++ {
		if t.Map[i].IsEmpty() {
			n++
		}
	}
	return n
}

// firstFreeCluster returns the lowest unallocated cluster number, or 0 if
// the map is full.
func (t *AllocationTable) firstFreeCluster() uint32 {
	for i := uint32(reservedClusters); i < ClusterMapSize; i++ {
		if t.Map[i].IsEmpty() {
			return i
		}
	}
	return 0
}

const (
	// DirectoryEntrySize is the encoded size of a single directory entry.
	DirectoryEntrySize = 32

	// DirectoryEntryCount is the number of entries in a directory table,
	// sized so the table fills exactly one cluster.
	DirectoryEntryCount = ClusterSize / DirectoryEntrySize
)

// DirectoryEntry is a single on-disk directory record. Name and Ext are
// space padded and compared byte for byte, there is no case folding.
type DirectoryEntry struct {
	Name            [8]byte
	Ext             [3]byte
	Attribute       byte
	UserAttribute   byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	AccessDate      uint16
	ClusterHigh     uint16
	ModifiedTime    uint16
	ModifiedDate    uint16
	ClusterLow      uint16
	FileSize        uint32
}

// FirstCluster joins the split cluster pointer halves.
func (e *DirectoryEntry) FirstCluster() uint32 {
	return uint32(e.ClusterLow) | uint32(e.ClusterHigh)<<16
}

func (e *DirectoryEntry) setFirstCluster(cluster uint32) {
	e.ClusterLow = uint16(cluster & 0xFFFF)
	e.ClusterHigh = uint16(cluster >> 16)
}

// IsUsed reports whether the slot holds a live entry.
func (e *DirectoryEntry) IsUsed() bool {
	return e.UserAttribute == uattrUsed
}

// IsDir reports whether the entry describes a subdirectory.
func (e *DirectoryEntry) IsDir() bool {
	return e.Attribute == AttrSubdirectory
}

func (e *DirectoryEntry) matches(name [8]byte, ext [3]byte) bool {
	return bytes.Equal(e.Name[:], name[:]) && bytes.Equal(e.Ext[:], ext[:])
}

// DirectoryTable is one directory's contents: a fixed array of entries
// stored in exactly one cluster. Entry 0 describes the directory itself and
// its cluster pointer holds the *parent* directory's cluster number.
type DirectoryTable struct {
	Entries [DirectoryEntryCount]DirectoryEntry
}

// newDirectoryTable builds an empty directory table whose self entry links
// back to parentCluster.
func newDirectoryTable(name [8]byte, parentCluster uint32) DirectoryTable {
	var table DirectoryTable
	self := &table.Entries[0]
	self.Name = name
	self.Attribute = AttrSubdirectory
	self.UserAttribute = uattrUsed
	self.setFirstCluster(parentCluster)
	return table
}

// IsDirectory reports whether the table's self entry describes a directory,
// i.e. whether the loaded cluster actually held a directory table.
func (t *DirectoryTable) IsDirectory() bool {
	return t.Entries[0].IsDir()
}

// ParentCluster returns the cluster number of the directory's parent.
func (t *DirectoryTable) ParentCluster() uint32 {
	return t.Entries[0].FirstCluster()
}

// find returns the index of the used entry matching name and ext, or -1.
// The self entry is never considered.
func (t *DirectoryTable) find(name [8]byte, ext [3]byte) int {
	for i := 1; i < DirectoryEntryCount; i++ {
		if t.Entries[i].IsUsed() && t.Entries[i].matches(name, ext) {
			return i
		}
	}
	return -1
}

// freeSlot returns the index of the first unused slot after the self entry,
// or -1 if the table is full.
func (t *DirectoryTable) freeSlot() int {
	for i := 1; i < DirectoryEntryCount; i++ {
		if !t.Entries[i].IsUsed() {
			return i
		}
	}
	return -1
}

// isEmpty reports whether no slot beyond the self entry is used.
func (t *DirectoryTable) isEmpty() bool {
	for i := 1; i < DirectoryEntryCount; i++ {
		if t.Entries[i].IsUsed() {
			return false
		}
	}
	return true
}

// signature is written to the boot block when the filesystem is created.
// It is only used as a presence check and never parsed.
var signature = func() [blockdev.BlockSize]byte {
	var sig [blockdev.BlockSize]byte
	copy(sig[:], ""+
		"osdev-kit fat32                 "+
		"educational FAT32-like volume   "+
		"block 0 marks formatted storage "+
		"--------------------------------")
	sig[blockdev.BlockSize-2] = 'O'
	sig[blockdev.BlockSize-1] = 'k'
	return sig
}()

// padName space-pads a short name to its on-disk 8-byte form.
func padName(name string) [8]byte {
	var out [8]byte
	copy(out[:], name)
	for i := len(name); i < len(out); i++ {
		out[i] = ' '
	}
	return out
}

// padExt space-pads an extension to its on-disk 3-byte form.
func padExt(ext string) [3]byte {
	var out [3]byte
	copy(out[:], ext)
	for i := len(ext); i < len(out); i++ {
		out[i] = ' '
	}
	return out
}
