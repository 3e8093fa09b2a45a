package mbr_test

import (
	"encoding/binary"
	"testing"

	"github.com/masahiro331/go-mbr-parser/pkg/disk/mbr"
	"golang.org/x/xerrors"
)

// buildEntry returns a 16 byte partition table entry.
func buildEntry(boot, partitionType byte, startSector, size uint32) []byte {
	b := make([]byte, mbr.EntrySize)
	b[0] = boot
	copy(b[1:4], []byte{0x01, 0x01, 0x00})
	b[4] = partitionType
	copy(b[5:8], []byte{0xfe, 0x3f, 0x01})
	binary.LittleEndian.PutUint32(b[8:12], startSector)
	binary.LittleEndian.PutUint32(b[12:16], size)
	return b
}

// buildRecord returns a 512 byte boot record holding up to 4 entries and a
// valid signature.
func buildRecord(entries ...[]byte) []byte {
	b := make([]byte, mbr.Sector)
	for i, e := range entries {
		copy(b[446+i*mbr.EntrySize:], e)
	}
	b[510] = 0x55
	b[511] = 0xAA
	return b
}

func TestNewBootRecord(t *testing.T) {
	entries := [][]byte{
		buildEntry(0x80, 0x07, 2048, 204800),
		buildEntry(0x00, 0x83, 206848, 409600),
		nil,
		buildEntry(0x00, 0x0f, 1000, 8000),
	}

	record, err := mbr.NewBootRecord(buildRecord(entries...), 0)
	if err != nil {
		t.Fatalf("NewBootRecord() error = %v", err)
	}

	if !record.ValidSignature() {
		t.Errorf("ValidSignature() = false, want true")
	}
	if record.Signature != 0xAA55 {
		t.Errorf("Signature = %#x, want 0xAA55", record.Signature)
	}
	if record.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", record.Offset())
	}

	wantNames := []string{"NTFS", "Linux", "Empty", "Microsoft Extended, LBA"}
	for i, want := range wantNames {
		if got := record.Partitions[i].Name(); got != want {
			t.Errorf("Partitions[%d].Name() = %q, want %q", i, got, want)
		}
	}
	if !record.Partitions[0].Bootable() {
		t.Errorf("Partitions[0].Bootable() = false, want true")
	}
	if got := record.Partitions[1].GetStartSector(); got != 206848 {
		t.Errorf("Partitions[1].GetStartSector() = %d, want 206848", got)
	}

	extended := record.ExtendedPartitions()
	if len(extended) != 1 || extended[0].StartSector != 1000 {
		t.Errorf("ExtendedPartitions() = %+v, want one entry starting at 1000", extended)
	}
}

func TestNewBootRecordInvalidSignature(t *testing.T) {
	b := buildRecord(buildEntry(0x00, 0x83, 2048, 4096))
	b[510] = 0x00
	b[511] = 0x00

	record, err := mbr.NewBootRecord(b, 100)
	if err != nil {
		t.Fatalf("NewBootRecord() error = %v", err)
	}
	if record.ValidSignature() {
		t.Errorf("ValidSignature() = true, want false")
	}
	if got := record.Partitions[0].Name(); got != "Linux" {
		t.Errorf("Partitions[0].Name() = %q, want %q", got, "Linux")
	}
}

func TestNewBootRecordMalformedBuffer(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "one byte short", size: 511},
		{name: "one byte long", size: 513},
		{name: "empty", size: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := mbr.NewBootRecord(make([]byte, tt.size), 0)
			if !xerrors.Is(err, mbr.ErrMalformedBuffer) {
				t.Fatalf("NewBootRecord() error = %v, want ErrMalformedBuffer", err)
			}
			if record != nil {
				t.Errorf("NewBootRecord() record = %+v, want nil", record)
			}
		})
	}
}
