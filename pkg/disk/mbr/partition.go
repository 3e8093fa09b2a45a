package mbr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

const EntrySize = 16

// DOS partition type values, from FSFA table 5.3.
// More partition values can be found here:
// http://www.win.tue.nl/~aeb/partitions/partition_types-1.html
var partitionTypes = map[byte]string{
	0x00: "Empty",
	0x01: "FAT12, CHS",
	0x04: "FAT16, 16-32 MB, CHS",
	0x05: "Microsoft Extended, CHS",
	0x06: "FAT16, 32 MB-2GB, CHS",
	0x07: "NTFS",
	0x0b: "FAT32, CHS",
	0x0c: "FAT32, LBA",
	0x0e: "FAT16, 32 MB-2GB, LBA",
	0x0f: "Microsoft Extended, LBA",
	0x11: "Hidden FAT12, CHS",
	0x14: "Hidden FAT16, 16-32 MB, CHS",
	0x16: "Hidden FAT16, 32 MB-2GB, CHS",
	0x1b: "Hidden FAT32, CHS",
	0x1c: "Hidden FAT32, LBA",
	0x1e: "Hidden FAT16, 32 MB-2GB, LBA",
	0x42: "Microsoft MBR, Dynamic Disk",
	0x82: "Solaris x86 -or- Linux Swap",
	0x83: "Linux",
	0x84: "Hibernation",
	0x85: "Linux Extended",
	0x86: "NTFS Volume Set",
	0x87: "NTFS Volume Set",
	0xa0: "Hibernation",
	0xa1: "Hibernation",
	0xa5: "FreeBSD",
	0xa6: "OpenBSD",
	0xa8: "Mac OSX",
	0xa9: "NetBSD",
	0xab: "Mac OSX Boot",
	0xb7: "BSDI",
	0xb8: "BSDI swap",
	0xdb: "Recovery Partition",
	0xde: "Dell Diagnostic Partition",
	0xee: "EFI GPT Disk",
	0xef: "EFI System Partition",
	0xfb: "Vmware File System",
	0xfc: "Vmware swap",
}

// TypeName resolves a partition type value to its name. Disks in the wild
// carry vendor and future type values, so unknown values resolve to a
// sentinel name instead of failing.
func TypeName(t byte) string {
	if name, ok := partitionTypes[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02X)", t)
}

/*
# Partition Entry Spec (16 bytes)
+-------------------+------+----------------------------------------------------------+
|        Name       | Byte |                        Description                       |
+-------------------+------+----------------------------------------------------------+
| Boot Indicator    | 1    | 0x80 if the partition is bootable                        |
| Starting CHS      | 3    | Starting sector of the partition in Cylinder Head Sector |
| Partition type    | 1    | FileSystem used by the partition                         |
| Ending CHS        | 3    | Ending sector of the partition in Cylinder Head Sector   |
| Starting Sector   | 4    | Starting sector of the partition (LBA, little endian)    |
| Partition Size    | 4    | Partition size in sectors (little endian)                |
+-------------------+------+----------------------------------------------------------+
*/
type PartitionEntry struct {
	BootIndicator byte
	StartCHS      [3]byte
	Type          byte
	EndCHS        [3]byte
	StartSector   uint32
	Size          uint32
}

// NewPartitionEntry decodes one 16 byte partition table entry.
// An Empty entry carries stale bytes in its LBA field, so its start sector
// is forced to zero.
func NewPartitionEntry(b []byte) (PartitionEntry, error) {
	var p PartitionEntry
	if len(b) != EntrySize {
		return p, xerrors.Errorf("partition entry must be %d bytes, got %d: %w", EntrySize, len(b), ErrMalformedBuffer)
	}

	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &p); err != nil {
		return p, xerrors.Errorf("failed to parse partition entry: %w", err)
	}
	if p.Name() == "Empty" {
		p.StartSector = 0
	}

	return p, nil
}

func (p PartitionEntry) Name() string {
	return TypeName(p.Type)
}

func (p PartitionEntry) GetType() byte {
	return p.Type
}

func (p PartitionEntry) Bootable() bool {
	return p.BootIndicator == 0x80
}

// Extended reports whether the entry points to a further boot record
// rather than to user data.
func (p PartitionEntry) Extended() bool {
	return strings.Contains(p.Name(), "Extended")
}

func (p PartitionEntry) GetStartSector() uint64 {
	return uint64(p.StartSector)
}

func (p PartitionEntry) GetSize() uint64 {
	return uint64(p.Size)
}

func (p PartitionEntry) GetStartCHS() [3]byte {
	return p.StartCHS
}

func (p PartitionEntry) GetEndCHS() [3]byte {
	return p.EndCHS
}
