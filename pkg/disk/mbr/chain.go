package mbr

import (
	"io"

	"golang.org/x/xerrors"
)

/*
# Extended Partitions

Extended partitions form a linked chain of boot records. The first sector of
the primary extended partition holds an EBR; each EBR describes at most one
data partition and at most one further extended entry continuing the chain.

The starting sector stored in a secondary extended entry is relative to the
*primary* extended partition, never to the EBR the entry was read from.
For example, if the primary extended partition starts at sector 1000 and an
EBR inside it holds an extended entry with starting sector 50, the next EBR
lives at absolute sector 1050, regardless of where that entry was read.
*/

type chainStep struct {
	primary uint32
	rel     uint32
	root    bool
}

// Walker reads the chain of boot records of a raw disk image one record per
// Next call, depth first in partition table order. It never reads ahead of
// the caller.
type Walker struct {
	rs      io.ReadSeeker
	stack   []chainStep
	visited map[uint32]struct{}
	err     error
}

// NewWalker returns a Walker over rs, positioned before the primary record
// at sector 0. The Walker owns rs until the walk ends; rs must not be read
// or seeked by anyone else meanwhile.
func NewWalker(rs io.ReadSeeker) *Walker {
	return &Walker{
		rs:      rs,
		stack:   []chainStep{{root: true}},
		visited: map[uint32]struct{}{},
	}
}

// Next reads and returns the next boot record of the chain.
// It returns io.EOF after the last record. Any other error is fatal for the
// traversal and is returned again on every further call.
func (w *Walker) Next() (*BootRecord, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.stack) == 0 {
		return nil, io.EOF
	}

	step := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	record, err := w.readRecord(step)
	if err != nil {
		w.err = err
		return nil, err
	}
	return record, nil
}

func (w *Walker) readRecord(step chainStep) (*BootRecord, error) {
	abs := step.primary + step.rel
	if _, ok := w.visited[abs]; ok {
		return nil, xerrors.Errorf("boot record at sector %d visited twice: %w", abs, ErrCircularChain)
	}
	w.visited[abs] = struct{}{}

	if _, err := w.rs.Seek(int64(abs)*Sector, io.SeekStart); err != nil {
		return nil, xerrors.Errorf("failed to seek to sector %d: %w", abs, err)
	}
	buf := make([]byte, Sector)
	if _, err := io.ReadFull(w.rs, buf); err != nil {
		return nil, xerrors.Errorf("failed to read boot record at sector %d: %w", abs, err)
	}

	record, err := NewBootRecord(buf, abs)
	if err != nil {
		return nil, err
	}

	// Push extended entries in reverse table order so the stack pops them
	// depth first in table order. A root entry starts a sub-chain and
	// becomes the primary extended offset for every EBR below it; a
	// secondary entry keeps the primary of its chain.
	for i := len(record.Partitions) - 1; i >= 0; i-- {
		p := record.Partitions[i]
		if !p.Extended() {
			continue
		}
		if step.root {
			w.stack = append(w.stack, chainStep{primary: p.StartSector})
		} else {
			w.stack = append(w.stack, chainStep{primary: step.primary, rel: p.StartSector})
		}
	}

	return record, nil
}

// ReadPartitionTables walks the whole chain of rs eagerly and returns every
// boot record in discovery order.
func ReadPartitionTables(rs io.ReadSeeker) ([]*BootRecord, error) {
	w := NewWalker(rs)

	var records []*BootRecord
	for {
		record, err := w.Next()
		if err == io.EOF {
			return records, nil
		} else if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}
