// Package fat32 implements a minimal FAT32-like filesystem driver on top of
// a fixed-size block device. The on-disk layout is one boot signature block,
// a single-cluster file allocation table and single-cluster directory tables
// holding fixed 8+3 entries. All operations are synchronous and
// single-threaded; callers sharing a Driver across goroutines must serialize
// access themselves.
package fat32

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/osdev-kit/fat32/blockdev"
	"github.com/osdev-kit/fat32/checkpoint"
)

// Request describes the target of a single driver operation: an 8+3 name,
// the cluster of the directory to operate in, and the caller's buffer.
//
// For Write a non-empty Buffer holds the new file's content while an empty
// Buffer requests a new subdirectory. For Read the Buffer receives the file
// content and must be at least as large as the file. ReadDirectory and
// Delete ignore the Buffer.
type Request struct {
	Name          string
	Ext           string
	ParentCluster uint32
	Buffer        []byte
}

// packed validates the request name and returns its on-disk form.
func (r Request) packed() ([8]byte, [3]byte, error) {
	if r.Name == "" || len(r.Name) > 8 || len(r.Ext) > 3 {
		return [8]byte{}, [3]byte{}, checkpoint.From(ErrInvalidName)
	}
	return padName(r.Name), padExt(r.Ext), nil
}

// Driver is one mounted filesystem instance. It owns the in-memory mirror of
// the file allocation table and a single directory table scratch buffer, so
// it must not be shared between goroutines without external locking.
type Driver struct {
	dev    blockdev.Device
	fat    AllocationTable
	dirBuf DirectoryTable

	// now stamps new directory entries; tests pin it.
	now func() time.Time
}

// New returns a driver for the given device. The driver is not usable until
// Mount (or Format) has run.
func New(dev blockdev.Device) *Driver {
	return &Driver{dev: dev, now: time.Now}
}

/* -- Cluster layer -- */

// clusterToLBA converts a cluster number to its logical block address.
func clusterToLBA(cluster uint32) uint32 {
	return cluster * ClusterBlockCount
}

// validCluster reports whether cluster lies inside the data area of the map.
func validCluster(cluster uint32) bool {
	return cluster >= reservedClusters && cluster < ClusterMapSize
}

func (d *Driver) readClusters(dst []byte, cluster uint32, count uint32) error {
	blocks := count * ClusterBlockCount
	if blocks > blockdev.MaxTransferBlocks {
		return checkpoint.From(ErrTransferTooLarge)
	}
	return checkpoint.Wrap(d.dev.ReadBlocks(dst, clusterToLBA(cluster), uint8(blocks)), ErrIO)
}

func (d *Driver) writeClusters(src []byte, cluster uint32, count uint32) error {
	blocks := count * ClusterBlockCount
	if blocks > blockdev.MaxTransferBlocks {
		return checkpoint.From(ErrTransferTooLarge)
	}
	return checkpoint.Wrap(d.dev.WriteBlocks(src, clusterToLBA(cluster), uint8(blocks)), ErrIO)
}

// loadCluster reads one cluster and decodes it into v, which must be a
// pointer to a struct whose binary encoding is exactly one cluster.
func (d *Driver) loadCluster(v interface{}, cluster uint32) error {
	buf := make([]byte, ClusterSize)
	if err := d.readClusters(buf, cluster, 1); err != nil {
		return err
	}
	return checkpoint.From(binary.Read(bytes.NewReader(buf), binary.LittleEndian, v))
}

// storeCluster encodes v and writes it to one cluster.
func (d *Driver) storeCluster(v interface{}, cluster uint32) error {
	buf := bytes.NewBuffer(make([]byte, 0, ClusterSize))
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return checkpoint.From(err)
	}
	return d.writeClusters(buf.Bytes(), cluster, 1)
}

/* -- Bootstrap -- */

// IsEmptyStorage reports whether the boot block is missing the filesystem
// signature.
func (d *Driver) IsEmptyStorage() (bool, error) {
	var boot [blockdev.BlockSize]byte
	if err := d.dev.ReadBlocks(boot[:], BootBlockNumber, 1); err != nil {
		return false, checkpoint.Wrap(err, ErrIO)
	}
	return !bytes.Equal(boot[:], signature[:]), nil
}

// Format writes a fresh filesystem: the boot signature, an allocation table
// with only the reserved entries and the root cluster taken, and an empty
// root directory whose self entry points at itself.
func (d *Driver) Format() error {
	if err := d.dev.WriteBlocks(signature[:], BootBlockNumber, 1); err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}

	d.fat = AllocationTable{}
	d.fat.Map[0] = fatReservedZero
	d.fat.Map[1] = fatReservedOne
	d.fat.Map[RootClusterNumber] = fatEndOfChain
	if err := d.storeCluster(&d.fat, FATClusterNumber); err != nil {
		return err
	}

	root := newDirectoryTable(padName("root"), RootClusterNumber)
	return d.storeCluster(&root, RootClusterNumber)
}

// Mount initializes the driver from storage: empty storage gets formatted,
// anything else has its allocation table loaded into the cache. Mounting an
// already mounted driver again just reloads the table.
func (d *Driver) Mount() error {
	empty, err := d.IsEmptyStorage()
	if err != nil {
		return err
	}
	if empty {
		return d.Format()
	}
	return d.loadCluster(&d.fat, FATClusterNumber)
}

/* -- CRUD engine -- */

// loadParent fills the scratch buffer with the directory table at cluster
// and verifies it really is one.
func (d *Driver) loadParent(cluster uint32) error {
	if !validCluster(cluster) {
		return checkpoint.From(ErrParentNotDirectory)
	}
	if err := d.loadCluster(&d.dirBuf, cluster); err != nil {
		return err
	}
	if !d.dirBuf.IsDirectory() {
		return checkpoint.From(ErrParentNotDirectory)
	}
	return nil
}

// ReadDirectory looks up the named subdirectory in the parent directory and
// returns its directory table.
func (d *Driver) ReadDirectory(req Request) (DirectoryTable, error) {
	name, ext, err := req.packed()
	if err != nil {
		return DirectoryTable{}, err
	}
	if err := d.loadParent(req.ParentCluster); err != nil {
		return DirectoryTable{}, err
	}

	i := d.dirBuf.find(name, ext)
	if i < 0 {
		return DirectoryTable{}, checkpoint.From(ErrNotFound)
	}
	if !d.dirBuf.Entries[i].IsDir() {
		return DirectoryTable{}, checkpoint.From(ErrNotADirectory)
	}

	if err := d.loadCluster(&d.dirBuf, d.dirBuf.Entries[i].FirstCluster()); err != nil {
		return DirectoryTable{}, err
	}
	return d.dirBuf, nil
}

// Read copies the named file's content into req.Buffer, which must be at
// least as large as the file. It returns the number of bytes read.
func (d *Driver) Read(req Request) (int, error) {
	name, ext, err := req.packed()
	if err != nil {
		return 0, err
	}
	if err := d.loadParent(req.ParentCluster); err != nil {
		return 0, err
	}

	i := d.dirBuf.find(name, ext)
	if i < 0 {
		return 0, checkpoint.From(ErrNotFound)
	}
	entry := d.dirBuf.Entries[i]
	if entry.IsDir() {
		return 0, checkpoint.From(ErrNotAFile)
	}
	size := int(entry.FileSize)
	if len(req.Buffer) < size {
		return 0, checkpoint.From(ErrBufferTooSmall)
	}

	var clusterBuf [ClusterSize]byte
	cluster := entry.FirstCluster()
	offset := 0
	for steps := 0; ; steps++ {
		if steps >= ClusterMapSize || !validCluster(cluster) {
			return 0, checkpoint.From(ErrCorrupted)
		}
		if err := d.readClusters(clusterBuf[:], cluster, 1); err != nil {
			return 0, err
		}
		offset += copy(req.Buffer[offset:size], clusterBuf[:])

		next := d.fat.Map[cluster]
		if next.IsEndOfChain() {
			break
		}
		if !next.IsNext() {
			return 0, checkpoint.From(ErrCorrupted)
		}
		cluster = uint32(next)
	}
	return size, nil
}

// Write creates a new entry in the parent directory. A non-empty buffer
// creates a file with that content; an empty buffer creates a subdirectory,
// which still takes one cluster for its own table.
//
// The directory table and allocation table are only flushed on success, so a
// rejected request leaves the on-disk state untouched.
func (d *Driver) Write(req Request) error {
	name, ext, err := req.packed()
	if err != nil {
		return err
	}
	if err := d.loadParent(req.ParentCluster); err != nil {
		return err
	}

	if d.dirBuf.find(name, ext) >= 0 {
		return checkpoint.From(ErrAlreadyExists)
	}
	slot := d.dirBuf.freeSlot()
	if slot < 0 {
		return checkpoint.From(ErrTableFull)
	}

	clusterCount := (len(req.Buffer) + ClusterSize - 1) / ClusterSize
	needed := clusterCount
	if needed == 0 {
		// A directory's own table cluster.
		needed = 1
	}
	if d.fat.freeClusters() < uint32(needed) {
		return checkpoint.From(ErrNoSpace)
	}

	now := d.now()
	entry := DirectoryEntry{
		Name:          name,
		Ext:           ext,
		UserAttribute: uattrUsed,
		CreateTime:    PackTime(now),
		CreateDate:    PackDate(now),
		AccessDate:    PackDate(now),
		ModifiedTime:  PackTime(now),
		ModifiedDate:  PackDate(now),
		FileSize:      uint32(len(req.Buffer)),
	}
	first := d.fat.firstFreeCluster()
	entry.setFirstCluster(first)

	if len(req.Buffer) == 0 {
		entry.Attribute = AttrSubdirectory
		table := newDirectoryTable(name, req.ParentCluster)
		d.fat.Map[first] = fatEndOfChain
		if err := d.storeCluster(&table, first); err != nil {
			return err
		}
	} else {
		chain := make([]uint32, 0, clusterCount)
		for i := uint32(reservedClusters); i < ClusterMapSize && len(chain) < clusterCount; i++ {
			if d.fat.Map[i].IsEmpty() {
				chain = append(chain, i)
			}
		}

		var clusterBuf [ClusterSize]byte
		for i, cluster := range chain {
			if i == len(chain)-1 {
				d.fat.Map[cluster] = fatEndOfChain
			} else {
				d.fat.Map[cluster] = fatEntry(chain[i+1])
			}

			n := copy(clusterBuf[:], req.Buffer[i*ClusterSize:])
			for j := n; j < ClusterSize; j++ {
				clusterBuf[j] = 0
			}
			if err := d.writeClusters(clusterBuf[:], cluster, 1); err != nil {
				return err
			}
		}
	}

	d.dirBuf.Entries[slot] = entry
	if err := d.storeCluster(&d.dirBuf, req.ParentCluster); err != nil {
		return err
	}
	return d.storeCluster(&d.fat, FATClusterNumber)
}

// Mkdir creates an empty subdirectory in the parent directory.
func (d *Driver) Mkdir(name string, parentCluster uint32) error {
	return d.Write(Request{Name: name, ParentCluster: parentCluster})
}

// Delete removes the named file or empty subdirectory from the parent
// directory, clears its whole entry slot and frees its cluster chain.
func (d *Driver) Delete(req Request) error {
	name, ext, err := req.packed()
	if err != nil {
		return err
	}
	if err := d.loadParent(req.ParentCluster); err != nil {
		return err
	}

	i := d.dirBuf.find(name, ext)
	if i < 0 {
		return checkpoint.From(ErrNotFound)
	}
	entry := d.dirBuf.Entries[i]

	if entry.IsDir() {
		var child DirectoryTable
		if err := d.loadCluster(&child, entry.FirstCluster()); err != nil {
			return err
		}
		if !child.isEmpty() {
			return checkpoint.From(ErrDirectoryNotEmpty)
		}
	}

	// Walk the whole chain before touching anything so a corrupted chain
	// cannot leave the cache half cleared.
	cluster := entry.FirstCluster()
	chain := make([]uint32, 0, 1)
	for steps := 0; ; steps++ {
		if steps >= ClusterMapSize || !validCluster(cluster) {
			return checkpoint.From(ErrCorrupted)
		}
		chain = append(chain, cluster)

		next := d.fat.Map[cluster]
		if next.IsEndOfChain() {
			break
		}
		if !next.IsNext() {
			return checkpoint.From(ErrCorrupted)
		}
		cluster = uint32(next)
	}

	// Zero the whole slot, not just the used flag, so later reuse cannot
	// pick up stale size or cluster fields.
	d.dirBuf.Entries[i] = DirectoryEntry{}
	for _, c := range chain {
		d.fat.Map[c] = fatEmpty
	}

	if err := d.storeCluster(&d.dirBuf, req.ParentCluster); err != nil {
		return err
	}
	return d.storeCluster(&d.fat, FATClusterNumber)
}
