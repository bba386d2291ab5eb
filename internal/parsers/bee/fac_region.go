package bee

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-bee/internal/interfaces"
	"github.com/deploymenttheory/go-bee/internal/types"
)

// FacRegion describes one Factory Access Control address range. Bytes
// whose absolute address falls inside the region are encrypted at rest.
type FacRegion struct {
	Start          uint32
	Length         uint32
	ProtectedLevel uint32
}

// Ensure interface compliance
var _ interfaces.BinaryBlock = (*FacRegion)(nil)

// NewFacRegion creates a validated FAC region.
func NewFacRegion(start, length, protectedLevel uint32) (*FacRegion, error) {
	region := &FacRegion{
		Start:          start,
		Length:         length,
		ProtectedLevel: protectedLevel,
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	return region, nil
}

// End returns the first address past the region.
func (r *FacRegion) End() uint32 {
	return r.Start + r.Length
}

// Contains reports whether addr lies inside the region.
func (r *FacRegion) Contains(addr uint32) bool {
	return r.Start <= addr && addr < r.End()
}

// Size returns the serialized size in bytes.
func (r *FacRegion) Size() int {
	return types.BeeFacRegionSize
}

func (r *FacRegion) String() string {
	return fmt.Sprintf("FAC(start=0x%08x, length=0x%x, protected_level=%d)",
		r.Start, r.Length, r.ProtectedLevel)
}

// Validate checks the region invariants. At least one of start or
// length must be aligned to the 1 KiB encryption block boundary; the
// hardware joins regions at that granularity.
func (r *FacRegion) Validate() error {
	if r.Start&types.BeeBlockAddrMask != 0 && r.Length&types.BeeBlockAddrMask != 0 {
		return fmt.Errorf("%w: FAC region 0x%08x[0x%x] has neither start nor length aligned to 0x%x",
			types.ErrFormat, r.Start, r.Length, types.BeeEncryptBlockSize)
	}
	if r.ProtectedLevel > types.BeeMaxProtectedLevel {
		return fmt.Errorf("%w: protected level %d exceeds %d",
			types.ErrFormat, r.ProtectedLevel, types.BeeMaxProtectedLevel)
	}
	end := uint64(r.Start) + uint64(r.Length)
	if r.Length == 0 || end > 0xFFFFFFFF {
		return fmt.Errorf("%w: FAC region 0x%08x[0x%x] has invalid start/end address",
			types.ErrFormat, r.Start, r.Length)
	}
	return nil
}

// Encode returns the 32-byte binary representation: start, end and
// protected level as little-endian u32, followed by 20 reserved zero
// bytes.
func (r *FacRegion) Encode() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, types.BeeFacRegionSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Start)
	binary.LittleEndian.PutUint32(buf[4:8], r.End())
	binary.LittleEndian.PutUint32(buf[8:12], r.ProtectedLevel)
	return buf, nil
}

// DecodeFacRegion parses a FAC region from raw data.
func DecodeFacRegion(data []byte) (*FacRegion, error) {
	if len(data) < types.BeeFacRegionSize {
		return nil, fmt.Errorf("%w: data too small for FAC region: %d bytes",
			types.ErrFormat, len(data))
	}
	if !bytes.Equal(data[12:types.BeeFacRegionSize], make([]byte, 20)) {
		return nil, fmt.Errorf("%w: FAC region reserved area is non-zero", types.ErrFormat)
	}
	start := binary.LittleEndian.Uint32(data[0:4])
	end := binary.LittleEndian.Uint32(data[4:8])
	protectedLevel := binary.LittleEndian.Uint32(data[8:12])
	return NewFacRegion(start, end-start, protectedLevel)
}
