package bee

import (
	"bytes"
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-bee/internal/crypto"
	"github.com/deploymenttheory/go-bee/internal/helpers"
	"github.com/deploymenttheory/go-bee/internal/interfaces"
	"github.com/deploymenttheory/go-bee/internal/types"
)

// ProtectRegionBlock is the BEE Protect Region Descriptor Block (PRDB):
// the cipher mode, the AES-CTR counter seed and one to four FAC
// regions. It owns the address-indexed encryption dispatch.
type ProtectRegionBlock struct {
	Mode        types.BeeAesMode
	LockOptions uint32

	// Counter seeds the AES-CTR counter; its last four bytes are
	// reserved and must be zero.
	Counter []byte

	regions   []*FacRegion
	startAddr uint32
	endAddr   uint32
}

// Ensure interface compliance
var _ interfaces.BinaryBlock = (*ProtectRegionBlock)(nil)

// NewProtectRegionBlock creates a PRDB without regions. A nil counter
// is replaced by 12 random bytes followed by four zero bytes.
func NewProtectRegionBlock(mode types.BeeAesMode, lockOptions uint32, counter []byte) (*ProtectRegionBlock, error) {
	if counter == nil {
		random, err := crypto.RandomBytes(types.BeeAesKeyLen - types.BeeCounterReservedLen)
		if err != nil {
			return nil, err
		}
		counter = append(random, make([]byte, types.BeeCounterReservedLen)...)
	}
	return &ProtectRegionBlock{
		Mode:        mode,
		LockOptions: lockOptions,
		Counter:     counter,
	}, nil
}

// Clone returns an independent deep copy.
func (p *ProtectRegionBlock) Clone() *ProtectRegionBlock {
	clone := &ProtectRegionBlock{
		Mode:        p.Mode,
		LockOptions: p.LockOptions,
		Counter:     append([]byte(nil), p.Counter...),
		startAddr:   p.startAddr,
		endAddr:     p.endAddr,
	}
	for _, region := range p.regions {
		copied := *region
		clone.regions = append(clone.regions, &copied)
	}
	return clone
}

// Regions returns the FAC regions in insertion order.
func (p *ProtectRegionBlock) Regions() []*FacRegion {
	return p.regions
}

// StartAddr returns the lowest start address across all regions.
func (p *ProtectRegionBlock) StartAddr() uint32 {
	return p.startAddr
}

// EndAddr returns the highest end address across all regions.
func (p *ProtectRegionBlock) EndAddr() uint32 {
	return p.endAddr
}

// AddRegion appends a FAC region, re-derives the address envelope and
// re-validates. On failure the region is not kept.
func (p *ProtectRegionBlock) AddRegion(fac *FacRegion) error {
	p.regions = append(p.regions, fac)
	p.update()
	if err := p.Validate(); err != nil {
		p.regions = p.regions[:len(p.regions)-1]
		p.update()
		return err
	}
	return nil
}

// update re-derives the envelope covering all regions.
func (p *ProtectRegionBlock) update() {
	var minAddr uint32
	if len(p.regions) > 0 {
		minAddr = 0xFFFFFFFF
	}
	var maxAddr uint32
	for _, region := range p.regions {
		if region.Start < minAddr {
			minAddr = region.Start
		}
		if region.End() > maxAddr {
			maxAddr = region.End()
		}
	}
	p.startAddr = minAddr
	p.endAddr = maxAddr
}

func (p *ProtectRegionBlock) String() string {
	result := fmt.Sprintf("PRDB(start=0x%08x, end=0x%08x, mode=%s)",
		p.startAddr, p.endAddr, p.Mode)
	for _, region := range p.regions {
		result += "\n  " + region.String()
	}
	return result
}

// Size returns the serialized size in bytes.
func (p *ProtectRegionBlock) Size() int {
	return types.BeePrdbSize
}

// Validate checks the PRDB invariants.
func (p *ProtectRegionBlock) Validate() error {
	if p.Mode != types.BeeAesModeCtr {
		return fmt.Errorf("%w: only AES-CTR is supported, got %s", types.ErrMode, p.Mode)
	}
	if len(p.Counter) != types.BeeAesKeyLen {
		return fmt.Errorf("%w: counter length %d, expected %d",
			types.ErrFormat, len(p.Counter), types.BeeAesKeyLen)
	}
	if !bytes.Equal(p.Counter[types.BeeAesKeyLen-types.BeeCounterReservedLen:], make([]byte, types.BeeCounterReservedLen)) {
		return fmt.Errorf("%w: last four counter bytes must be zero", types.ErrFormat)
	}
	if len(p.regions) == 0 || len(p.regions) > types.BeeMaxFacRegions {
		return fmt.Errorf("%w: FAC region count %d outside 1..%d",
			types.ErrFormat, len(p.regions), types.BeeMaxFacRegions)
	}
	for _, region := range p.regions {
		if err := region.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Encode returns the 256-byte binary representation. The counter is
// stored byte-reversed; this wire quirk must be reproduced bit-exactly
// for interoperability with the boot ROM.
func (p *ProtectRegionBlock) Encode() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, types.BeePrdbSize)
	binary.LittleEndian.PutUint32(buf[0:4], types.BeePrdbTagLow)
	binary.LittleEndian.PutUint32(buf[4:8], types.BeePrdbTagHigh)
	binary.LittleEndian.PutUint32(buf[8:12], types.BeePrdbVersion)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(p.regions)))
	binary.LittleEndian.PutUint32(buf[16:20], p.startAddr)
	binary.LittleEndian.PutUint32(buf[20:24], p.endAddr)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(p.Mode))
	binary.LittleEndian.PutUint32(buf[28:32], p.LockOptions)
	copy(buf[32:48], helpers.ReverseBytes(p.Counter))
	// bytes 48..80 reserved
	offset := 80
	for _, region := range p.regions {
		encoded, err := region.Encode()
		if err != nil {
			return nil, err
		}
		copy(buf[offset:], encoded)
		offset += types.BeeFacRegionSize
	}
	return buf, nil
}

// DecodeProtectRegionBlock parses a PRDB from raw data, reversing the
// counter bytes back to their in-memory order.
func DecodeProtectRegionBlock(data []byte) (*ProtectRegionBlock, error) {
	if len(data) < types.BeePrdbSize {
		return nil, fmt.Errorf("%w: data too small for PRDB: %d bytes",
			types.ErrFormat, len(data))
	}
	tagLow := binary.LittleEndian.Uint32(data[0:4])
	tagHigh := binary.LittleEndian.Uint32(data[4:8])
	if tagLow != types.BeePrdbTagLow || tagHigh != types.BeePrdbTagHigh {
		return nil, fmt.Errorf("%w: invalid PRDB tag 0x%08x/0x%08x",
			types.ErrFormat, tagLow, tagHigh)
	}
	version := binary.LittleEndian.Uint32(data[8:12])
	if version != types.BeePrdbVersion {
		return nil, fmt.Errorf("%w: unsupported PRDB version 0x%08x", types.ErrFormat, version)
	}
	if !bytes.Equal(data[48:80], make([]byte, 32)) {
		return nil, fmt.Errorf("%w: PRDB reserved area is non-zero", types.ErrFormat)
	}
	regionCount := binary.LittleEndian.Uint32(data[12:16])
	if regionCount == 0 || regionCount > types.BeeMaxFacRegions {
		return nil, fmt.Errorf("%w: FAC region count %d outside 1..%d",
			types.ErrFormat, regionCount, types.BeeMaxFacRegions)
	}
	prdb := &ProtectRegionBlock{
		Mode:        types.BeeAesMode(binary.LittleEndian.Uint32(data[24:28])),
		LockOptions: binary.LittleEndian.Uint32(data[28:32]),
		Counter:     helpers.ReverseBytes(data[32:48]),
		startAddr:   binary.LittleEndian.Uint32(data[16:20]),
		endAddr:     binary.LittleEndian.Uint32(data[20:24]),
	}
	offset := 80
	for i := uint32(0); i < regionCount; i++ {
		region, err := DecodeFacRegion(data[offset : offset+types.BeeFacRegionSize])
		if err != nil {
			return nil, err
		}
		prdb.regions = append(prdb.regions, region)
		offset += types.BeeFacRegionSize
	}
	prdb.update()
	if err := prdb.Validate(); err != nil {
		return nil, err
	}
	return prdb, nil
}

// insideEnvelope reports whether addr lies inside the address envelope
// spanning all regions.
func (p *ProtectRegionBlock) insideEnvelope(addr uint32) bool {
	return p.startAddr <= addr && addr < p.endAddr
}

// EncryptBlock encrypts one block located at the given absolute address
// if it falls inside a FAC region; blocks outside every region are
// returned unchanged. Protected blocks are padded with random bytes to
// the AES block size and encrypted with AES-CTR, seeding the low 32
// counter bits with the AES block index (address >> 4, big-endian).
func (p *ProtectRegionBlock) EncryptBlock(key []byte, address uint32, data []byte) ([]byte, error) {
	if len(data) > types.BeeEncryptBlockSize {
		return nil, fmt.Errorf("%w: block length %d exceeds 0x%x",
			types.ErrRange, len(data), types.BeeEncryptBlockSize)
	}
	if !p.insideEnvelope(address) {
		return data, nil
	}
	if p.Mode != types.BeeAesModeCtr {
		return nil, fmt.Errorf("%w: only AES-CTR is supported, got %s", types.ErrMode, p.Mode)
	}
	if len(key) != types.BeeAesKeyLen {
		return nil, fmt.Errorf("%w: key length %d, expected %d",
			types.ErrKey, len(key), types.BeeAesKeyLen)
	}
	for _, region := range p.regions {
		if !region.Contains(address) {
			continue
		}
		if uint64(address)+uint64(len(data)) > uint64(region.End()) {
			return nil, fmt.Errorf("%w: block 0x%08x..0x%08x exceeds %s",
				types.ErrRange, address, uint64(address)+uint64(len(data)), region)
		}
		counter := append([]byte(nil), p.Counter...)
		binary.BigEndian.PutUint32(counter[types.BeeAesKeyLen-4:], address>>4)
		logrus.WithFields(logrus.Fields{
			"start": fmt.Sprintf("0x%08x", address),
			"size":  fmt.Sprintf("0x%x", len(data)),
		}).Debugf("encrypting block inside %s", region)
		padded, err := helpers.AlignBlockFillRandom(data, aes.BlockSize)
		if err != nil {
			return nil, err
		}
		return crypto.EncryptAesCtr(key, counter, padded)
	}
	return data, nil
}
