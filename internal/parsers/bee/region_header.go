package bee

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-bee/internal/crypto"
	"github.com/deploymenttheory/go-bee/internal/interfaces"
	"github.com/deploymenttheory/go-bee/internal/types"
)

// RegionHeader composes a KIB and a PRDB behind two layers of AES
// encryption: the software key wraps the KIB with AES-ECB, and the KIB
// wraps the PRDB with AES-CBC. One header drives one hardware engine.
// The software key never appears in the serialized header.
type RegionHeader struct {
	prdb  *ProtectRegionBlock
	kib   *KeyInfoBlock
	swKey []byte
}

// Ensure interface compliance
var (
	_ interfaces.BinaryBlock    = (*RegionHeader)(nil)
	_ interfaces.BlockEncryptor = (*RegionHeader)(nil)
)

// NewRegionHeader creates a region header. Nil arguments are replaced
// by defaults: an empty CTR-mode PRDB, a random software key and a
// random KIB.
func NewRegionHeader(prdb *ProtectRegionBlock, swKey []byte, kib *KeyInfoBlock) (*RegionHeader, error) {
	var err error
	if prdb == nil {
		if prdb, err = NewProtectRegionBlock(types.BeeAesModeCtr, 0, nil); err != nil {
			return nil, err
		}
	}
	if swKey == nil {
		if swKey, err = crypto.RandomBytes(types.BeeAesKeyLen); err != nil {
			return nil, err
		}
	}
	if kib == nil {
		if kib, err = NewKeyInfoBlock(nil, nil); err != nil {
			return nil, err
		}
	}
	return &RegionHeader{prdb: prdb, kib: kib, swKey: swKey}, nil
}

// Prdb returns the protect region descriptor block.
func (h *RegionHeader) Prdb() *ProtectRegionBlock {
	return h.prdb
}

// Regions returns the FAC regions of the underlying PRDB.
func (h *RegionHeader) Regions() []*FacRegion {
	return h.prdb.Regions()
}

// AddRegion appends a FAC region to the underlying PRDB. Callers
// building multi-engine images must go through the orchestrator's
// AddFacRegion, which additionally enforces cross-engine exclusivity.
func (h *RegionHeader) AddRegion(fac *FacRegion) error {
	return h.prdb.AddRegion(fac)
}

func (h *RegionHeader) String() string {
	return fmt.Sprintf("BEE region header\n- %s\n- %s", h.kib, h.prdb)
}

// Size returns the serialized size in bytes.
func (h *RegionHeader) Size() int {
	return types.BeeRegionHeaderSize
}

// FuseValues returns the four fuse words for the software key, ordered
// the way the target hardware expects them to be programmed: the first
// value (key bytes 12..15, big-endian) is burned to the lowest fuse
// address.
func (h *RegionHeader) FuseValues() []uint32 {
	values := make([]uint32, 0, 4)
	for pos := types.BeeAesKeyLen; pos > 0; pos -= 4 {
		values = append(values, binary.BigEndian.Uint32(h.swKey[pos-4:pos]))
	}
	return values
}

// Validate checks both sub-blocks and the software key length.
func (h *RegionHeader) Validate() error {
	if err := h.kib.Validate(); err != nil {
		return err
	}
	if err := h.prdb.Validate(); err != nil {
		return err
	}
	if len(h.swKey) != types.BeeAesKeyLen {
		return fmt.Errorf("%w: software key length %d, expected %d",
			types.ErrKey, len(h.swKey), types.BeeAesKeyLen)
	}
	return nil
}

// Encode returns the 512-byte binary representation: the AES-ECB
// encrypted KIB at offset 0, zero padding to offset 0x80, the AES-CBC
// encrypted PRDB, then zero padding to 512 bytes.
func (h *RegionHeader) Encode() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, types.BeeRegionHeaderSize)
	kibData, err := h.kib.Encode()
	if err != nil {
		return nil, err
	}
	encryptedKib, err := crypto.EncryptAesEcb(h.swKey, kibData)
	if err != nil {
		return nil, err
	}
	copy(buf, encryptedKib)
	prdbData, err := h.prdb.Encode()
	if err != nil {
		return nil, err
	}
	encryptedPrdb, err := crypto.EncryptAesCbc(h.kib.Key, h.kib.IV, prdbData)
	if err != nil {
		return nil, err
	}
	copy(buf[types.BeePrdbOffset:], encryptedPrdb)
	return buf, nil
}

// DecodeRegionHeader parses a region header, decrypting the KIB with
// the given software key and the PRDB with the recovered KIB. A wrong
// key produces garbage that fails the PRDB magic and version checks,
// which is the expected tamper and wrong-key signal.
func DecodeRegionHeader(data []byte, swKey []byte) (*RegionHeader, error) {
	if len(swKey) != types.BeeAesKeyLen {
		return nil, fmt.Errorf("%w: software key length %d, expected %d",
			types.ErrKey, len(swKey), types.BeeAesKeyLen)
	}
	if len(data) < types.BeeRegionHeaderSize {
		return nil, fmt.Errorf("%w: data too small for region header: %d bytes",
			types.ErrFormat, len(data))
	}
	kibData, err := crypto.DecryptAesEcb(swKey, data[0:types.BeeKibSize])
	if err != nil {
		return nil, err
	}
	kib, err := DecodeKeyInfoBlock(kibData)
	if err != nil {
		return nil, err
	}
	prdbData, err := crypto.DecryptAesCbc(kib.Key, kib.IV,
		data[types.BeePrdbOffset:types.BeePrdbOffset+types.BeePrdbSize])
	if err != nil {
		return nil, err
	}
	prdb, err := DecodeProtectRegionBlock(prdbData)
	if err != nil {
		return nil, err
	}
	header := &RegionHeader{prdb: prdb, kib: kib, swKey: swKey}
	if err := header.Validate(); err != nil {
		return nil, err
	}
	return header, nil
}

// EncryptBlock encrypts one block with the software key if its address
// falls inside a FAC region; other blocks are returned unchanged.
func (h *RegionHeader) EncryptBlock(address uint32, data []byte) ([]byte, error) {
	return h.prdb.EncryptBlock(h.swKey, address, data)
}
