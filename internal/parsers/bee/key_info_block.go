package bee

import (
	"fmt"

	"github.com/deploymenttheory/go-bee/internal/crypto"
	"github.com/deploymenttheory/go-bee/internal/interfaces"
	"github.com/deploymenttheory/go-bee/internal/types"
)

// KeyInfoBlock (KIB) holds the AES key and IV that protect the PRDB
// content. The block itself is stored encrypted under the software key.
type KeyInfoBlock struct {
	Key []byte
	IV  []byte
}

// Ensure interface compliance
var _ interfaces.BinaryBlock = (*KeyInfoBlock)(nil)

// NewKeyInfoBlock creates a KIB. A nil key or IV is replaced by a
// random value.
func NewKeyInfoBlock(key, iv []byte) (*KeyInfoBlock, error) {
	var err error
	if key == nil {
		if key, err = crypto.RandomBytes(types.BeeAesKeyLen); err != nil {
			return nil, err
		}
	}
	if iv == nil {
		if iv, err = crypto.RandomBytes(types.BeeAesKeyLen); err != nil {
			return nil, err
		}
	}
	kib := &KeyInfoBlock{Key: key, IV: iv}
	if err := kib.Validate(); err != nil {
		return nil, err
	}
	return kib, nil
}

// Clone returns an independent deep copy.
func (k *KeyInfoBlock) Clone() *KeyInfoBlock {
	return &KeyInfoBlock{
		Key: append([]byte(nil), k.Key...),
		IV:  append([]byte(nil), k.IV...),
	}
}

// Size returns the serialized size in bytes.
func (k *KeyInfoBlock) Size() int {
	return types.BeeKibSize
}

func (k *KeyInfoBlock) String() string {
	return fmt.Sprintf("KIB(key=%x, iv=%x)", k.Key, k.IV)
}

// Validate checks the key material lengths.
func (k *KeyInfoBlock) Validate() error {
	if len(k.Key) != types.BeeAesKeyLen {
		return fmt.Errorf("%w: KIB key length %d, expected %d",
			types.ErrKey, len(k.Key), types.BeeAesKeyLen)
	}
	if len(k.IV) != types.BeeAesKeyLen {
		return fmt.Errorf("%w: KIB IV length %d, expected %d",
			types.ErrKey, len(k.IV), types.BeeAesKeyLen)
	}
	return nil
}

// Encode returns the 32-byte concatenation key || iv.
func (k *KeyInfoBlock) Encode() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, types.BeeKibSize)
	buf = append(buf, k.Key...)
	return append(buf, k.IV...), nil
}

// DecodeKeyInfoBlock parses a KIB from raw data. No validation beyond
// the length is possible; the content is opaque key material.
func DecodeKeyInfoBlock(data []byte) (*KeyInfoBlock, error) {
	if len(data) < types.BeeKibSize {
		return nil, fmt.Errorf("%w: data too small for KIB: %d bytes",
			types.ErrFormat, len(data))
	}
	return NewKeyInfoBlock(
		append([]byte(nil), data[0:types.BeeAesKeyLen]...),
		append([]byte(nil), data[types.BeeAesKeyLen:types.BeeKibSize]...),
	)
}
