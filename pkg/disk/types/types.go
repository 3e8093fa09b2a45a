package types

// Partition is a read-only view of one DOS partition table entry.
type Partition interface {
	Name() string
	GetType() byte
	Bootable() bool
	Extended() bool

	GetStartSector() uint64
	GetSize() uint64
	GetStartCHS() [3]byte
	GetEndCHS() [3]byte
}
