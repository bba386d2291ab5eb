package types

// Wire-format constants for the Bus Encryption Engine (BEE) on RT10xx
// devices. All multi-byte fields are little-endian on the wire.

const (
	// BeeEncryptBlockSize is the maximal size in bytes of one block
	// passed through the encryption dispatch.
	BeeEncryptBlockSize = 0x400

	// BeeBlockAddrMask masks the address bits that must be zero for a
	// FAC region boundary to count as aligned.
	BeeBlockAddrMask = BeeEncryptBlockSize - 1

	// BeeFacRegionSize is the serialized size of one FAC region.
	BeeFacRegionSize = 32

	// BeeKibSize is the serialized size of the Key Info Block.
	BeeKibSize = 32

	// BeePrdbSize is the serialized size of the Protect Region
	// Descriptor Block including padding.
	BeePrdbSize = 0x100

	// BeePrdbOffset is the offset of the encrypted PRDB inside a
	// region header.
	BeePrdbOffset = 0x80

	// BeeRegionHeaderSize is the serialized size of a region header
	// including padding.
	BeeRegionHeaderSize = 0x200

	// BeePrdbTagLow is the low magic tag of the PRDB header ("TAG_").
	BeePrdbTagLow = 0x5F474154

	// BeePrdbTagHigh is the high magic tag of the PRDB header ("EHDR").
	BeePrdbTagHigh = 0x52444845

	// BeePrdbVersion is the only supported PRDB format version.
	BeePrdbVersion = 0x56010000

	// BeeMaxFacRegions is the maximal number of FAC regions in one
	// PRDB; the real limit depends on the processor.
	BeeMaxFacRegions = 4

	// BeeMaxProtectedLevel is the highest FAC protection level.
	BeeMaxProtectedLevel = 3

	// BeeAesKeyLen is the length of all BEE AES keys, IVs and counters.
	BeeAesKeyLen = 16

	// BeeCounterReservedLen is the number of trailing counter bytes
	// that must be zero; they carry the running AES block index.
	BeeCounterReservedLen = 4

	// BeeMaxEngines is the number of hardware encryption engines.
	BeeMaxEngines = 2
)

// BeeAesMode selects the cipher mode used for protected regions.
type BeeAesMode uint32

const (
	// BeeAesModeEcb is defined by the format but not supported by the
	// current hardware generation.
	BeeAesModeEcb BeeAesMode = 0

	// BeeAesModeCtr is the only mode implemented.
	BeeAesModeCtr BeeAesMode = 1
)

// String returns the mode name.
func (m BeeAesMode) String() string {
	switch m {
	case BeeAesModeEcb:
		return "ECB"
	case BeeAesModeCtr:
		return "CTR"
	default:
		return "unknown"
	}
}
