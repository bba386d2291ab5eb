package bee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-bee/internal/types"
)

// createValidPrdb builds a CTR-mode PRDB with a fixed counter and one
// FAC region covering [0x1000, 0x1400).
func createValidPrdb(t *testing.T) *ProtectRegionBlock {
	t.Helper()
	prdb, err := NewProtectRegionBlock(types.BeeAesModeCtr, 0,
		mustHex(t, "00112233445566778899aabb00000000"))
	require.NoError(t, err)
	region, err := NewFacRegion(0x1000, 0x400, 0)
	require.NoError(t, err)
	require.NoError(t, prdb.AddRegion(region))
	return prdb
}

func TestNewProtectRegionBlockDefaultCounter(t *testing.T) {
	prdb, err := NewProtectRegionBlock(types.BeeAesModeCtr, 0, nil)
	require.NoError(t, err)
	assert.Len(t, prdb.Counter, types.BeeAesKeyLen)
	assert.Equal(t, make([]byte, 4), prdb.Counter[12:])
}

func TestProtectRegionBlockAddRegion(t *testing.T) {
	prdb := createValidPrdb(t)
	assert.Equal(t, uint32(0x1000), prdb.StartAddr())
	assert.Equal(t, uint32(0x1400), prdb.EndAddr())

	region, err := NewFacRegion(0x8000, 0x800, 1)
	require.NoError(t, err)
	require.NoError(t, prdb.AddRegion(region))
	assert.Equal(t, uint32(0x1000), prdb.StartAddr())
	assert.Equal(t, uint32(0x8800), prdb.EndAddr())

	// a fifth region exceeds the format limit and is not kept
	for i := 0; i < 2; i++ {
		extra, err := NewFacRegion(uint32(0x10000+i*0x1000), 0x400, 0)
		require.NoError(t, err)
		require.NoError(t, prdb.AddRegion(extra))
	}
	overflow, err := NewFacRegion(0x20000, 0x400, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, prdb.AddRegion(overflow), types.ErrFormat)
	assert.Len(t, prdb.Regions(), 4)
	assert.Equal(t, uint32(0x11400), prdb.EndAddr())
}

func TestProtectRegionBlockValidate(t *testing.T) {
	t.Run("no regions", func(t *testing.T) {
		prdb, err := NewProtectRegionBlock(types.BeeAesModeCtr, 0, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, prdb.Validate(), types.ErrFormat)
	})

	t.Run("ECB mode unsupported", func(t *testing.T) {
		prdb := createValidPrdb(t)
		prdb.Mode = types.BeeAesModeEcb
		assert.ErrorIs(t, prdb.Validate(), types.ErrMode)
	})

	t.Run("counter reserved bytes non-zero", func(t *testing.T) {
		prdb := createValidPrdb(t)
		prdb.Counter[15] = 0x01
		assert.ErrorIs(t, prdb.Validate(), types.ErrFormat)
	})

	t.Run("counter wrong length", func(t *testing.T) {
		prdb := createValidPrdb(t)
		prdb.Counter = prdb.Counter[:12]
		assert.ErrorIs(t, prdb.Validate(), types.ErrFormat)
	})
}

func TestProtectRegionBlockEncodeLayout(t *testing.T) {
	prdb := createValidPrdb(t)
	encoded, err := prdb.Encode()
	require.NoError(t, err)
	require.Len(t, encoded, types.BeePrdbSize)

	assert.Equal(t, mustHex(t, "5441475f"), encoded[0:4])  // "TAG_"
	assert.Equal(t, mustHex(t, "45484452"), encoded[4:8])  // "EHDR"
	assert.Equal(t, mustHex(t, "00000156"), encoded[8:12]) // version
	assert.Equal(t, mustHex(t, "01000000"), encoded[12:16])
	assert.Equal(t, mustHex(t, "00100000"), encoded[16:20]) // start
	assert.Equal(t, mustHex(t, "00140000"), encoded[20:24]) // end
	assert.Equal(t, mustHex(t, "01000000"), encoded[24:28]) // CTR mode

	// the counter is stored in reverse byte order on the wire
	assert.Equal(t, mustHex(t, "00000000bbaa99887766554433221100"), encoded[32:48])

	// reserved area and padding stay zero
	assert.Equal(t, make([]byte, 32), encoded[48:80])
	assert.Equal(t, make([]byte, types.BeePrdbSize-112), encoded[112:])
}

func TestProtectRegionBlockRoundTrip(t *testing.T) {
	prdb := createValidPrdb(t)
	region, err := NewFacRegion(0x60000000, 0x100000, 3)
	require.NoError(t, err)
	require.NoError(t, prdb.AddRegion(region))

	encoded, err := prdb.Encode()
	require.NoError(t, err)

	decoded, err := DecodeProtectRegionBlock(encoded)
	require.NoError(t, err)
	assert.Equal(t, prdb.Mode, decoded.Mode)
	assert.Equal(t, prdb.LockOptions, decoded.LockOptions)
	assert.Equal(t, prdb.Counter, decoded.Counter)
	assert.Equal(t, prdb.Regions(), decoded.Regions())
	assert.Equal(t, prdb.StartAddr(), decoded.StartAddr())
	assert.Equal(t, prdb.EndAddr(), decoded.EndAddr())

	reencoded, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestDecodeProtectRegionBlockErrors(t *testing.T) {
	valid, err := createValidPrdb(t).Encode()
	require.NoError(t, err)

	corrupt := func(offset int, value byte) []byte {
		data := append([]byte(nil), valid...)
		data[offset] = value
		return data
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "data too small", data: valid[:128]},
		{name: "bad low tag", data: corrupt(0, 0xFF)},
		{name: "bad high tag", data: corrupt(4, 0xFF)},
		{name: "bad version", data: corrupt(8, 0xFF)},
		{name: "zero region count", data: corrupt(12, 0x00)},
		{name: "region count too large", data: corrupt(12, 0x05)},
		{name: "non-zero reserved area", data: corrupt(50, 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProtectRegionBlock(tt.data)
			assert.ErrorIs(t, err, types.ErrFormat)
		})
	}
}

func TestEncryptBlockPassThrough(t *testing.T) {
	prdb := createValidPrdb(t)
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	block := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	// outside the region envelope; repeated calls stay untouched
	for i := 0; i < 3; i++ {
		out, err := prdb.EncryptBlock(key, 0x0, block)
		require.NoError(t, err)
		assert.Equal(t, block, out)
	}
	out, err := prdb.EncryptBlock(key, 0x1400, block)
	require.NoError(t, err)
	assert.Equal(t, block, out)
}

func TestEncryptBlockKnownVector(t *testing.T) {
	prdb := createValidPrdb(t)
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plaintext := mustHex(t, "000102030405060708090a0b0c0d0e0f")

	// AES-CTR with the low 32 counter bits replaced by 0x1000 >> 4
	ciphertext, err := prdb.EncryptBlock(key, 0x1000, plaintext)
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "ed2e7db08fbb659e7b6a43883f7707fb"), ciphertext)

	// decrypting is the same transform
	decrypted, err := prdb.EncryptBlock(key, 0x1000, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptBlockErrors(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")

	t.Run("block too long", func(t *testing.T) {
		prdb := createValidPrdb(t)
		_, err := prdb.EncryptBlock(key, 0x1000, make([]byte, types.BeeEncryptBlockSize+1))
		assert.ErrorIs(t, err, types.ErrRange)
	})

	t.Run("block exceeds region end", func(t *testing.T) {
		prdb := createValidPrdb(t)
		_, err := prdb.EncryptBlock(key, 0x1200, make([]byte, 0x400))
		assert.ErrorIs(t, err, types.ErrRange)
	})

	t.Run("wrong key length", func(t *testing.T) {
		prdb := createValidPrdb(t)
		_, err := prdb.EncryptBlock(key[:15], 0x1000, make([]byte, 16))
		assert.ErrorIs(t, err, types.ErrKey)
	})

	t.Run("unsupported mode", func(t *testing.T) {
		prdb := createValidPrdb(t)
		prdb.Mode = types.BeeAesModeEcb
		_, err := prdb.EncryptBlock(key, 0x1000, make([]byte, 16))
		assert.ErrorIs(t, err, types.ErrMode)
	})
}

func TestEncryptBlockPadsToAesBlock(t *testing.T) {
	prdb := createValidPrdb(t)
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")

	ciphertext, err := prdb.EncryptBlock(key, 0x1000, make([]byte, 20))
	require.NoError(t, err)
	assert.Len(t, ciphertext, 32)
}

func TestProtectRegionBlockClone(t *testing.T) {
	prdb := createValidPrdb(t)
	clone := prdb.Clone()
	assert.Equal(t, prdb.Counter, clone.Counter)
	assert.Equal(t, prdb.Regions(), clone.Regions())

	region, err := NewFacRegion(0x4000, 0x400, 0)
	require.NoError(t, err)
	require.NoError(t, clone.AddRegion(region))
	assert.Len(t, prdb.Regions(), 1)
	assert.Len(t, clone.Regions(), 2)
}
