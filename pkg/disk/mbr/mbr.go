package mbr

import (
	"encoding/binary"

	"github.com/masahiro331/go-mbr-parser/pkg/disk/types"
	"golang.org/x/xerrors"
)

const (
	SIGNATURE = 0xAA55
	Sector    = 512

	entryOffset = 446
	signOffset  = 510
)

var (
	ErrMalformedBuffer = xerrors.New("malformed buffer")
	ErrCircularChain   = xerrors.New("circular extended partition chain")
)

/*
# Master Boot Record Spec
https://uefi.org/sites/default/files/resources/UEFI%20Spec%202.8B%20May%202020.pdf
p. 112
Master Boot Record always 512 bytes.
The same layout is reused by every Extended Boot Record in the chain.
+------------------------+------+
|         Name           | Byte |
+------------------------+------+
| Boot Code Area         | 446  |
| Partition 1            | 16   |
| Partition 2            | 16   |
| Partition 3            | 16   |
| Partition 4            | 16   |
| Boot Record Signature  | 2    |
+------------------------+------+
*/
type BootRecord struct {
	BootCodeArea [446]byte
	Partitions   [4]PartitionEntry
	Signature    uint16

	offset uint32
}

// NewBootRecord decodes a 512 byte boot record read at absolute sector
// readOffset. An invalid signature is not a decode error; secondary EBRs in
// the wild sometimes carry stale or zeroed signatures, so the caller decides
// how much to trust the record via ValidSignature.
func NewBootRecord(b []byte, readOffset uint32) (*BootRecord, error) {
	if len(b) != Sector {
		return nil, xerrors.Errorf("boot record must be %d bytes, got %d: %w", Sector, len(b), ErrMalformedBuffer)
	}

	var r BootRecord
	copy(r.BootCodeArea[:], b[:entryOffset])
	for i := 0; i < len(r.Partitions); i++ {
		off := entryOffset + i*EntrySize
		p, err := NewPartitionEntry(b[off : off+EntrySize])
		if err != nil {
			return nil, xerrors.Errorf("failed to parse partition[%d]: %w", i, err)
		}
		r.Partitions[i] = p
	}
	r.Signature = binary.LittleEndian.Uint16(b[signOffset:])
	r.offset = readOffset

	return &r, nil
}

func (r *BootRecord) ValidSignature() bool {
	return r.Signature == SIGNATURE
}

// Offset returns the absolute sector this record was read from.
// 0 for the primary record.
func (r *BootRecord) Offset() uint32 {
	return r.offset
}

func (r *BootRecord) GetPartitions() []types.Partition {
	var ps []types.Partition
	for _, p := range r.Partitions {
		ps = append(ps, p)
	}
	return ps
}

// ExtendedPartitions returns the entries pointing to further boot records,
// in table order.
func (r *BootRecord) ExtendedPartitions() []PartitionEntry {
	var ps []PartitionEntry
	for _, p := range r.Partitions {
		if p.Extended() {
			ps = append(ps, p)
		}
	}
	return ps
}
