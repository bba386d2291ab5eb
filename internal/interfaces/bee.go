package interfaces

// BinaryBlock is implemented by every fixed-layout BEE structure
// (FAC region, KIB, PRDB, region header).
type BinaryBlock interface {
	// Validate checks the invariants of the structure; it is called
	// before every encode and after every decode.
	Validate() error

	// Encode returns the canonical binary representation.
	Encode() ([]byte, error)

	// Size returns the serialized size in bytes.
	Size() int
}

// BlockEncryptor encrypts image blocks that fall inside a configured
// protected region and passes all other blocks through untouched.
type BlockEncryptor interface {
	// EncryptBlock transforms one block located at the given absolute
	// address. Blocks outside every FAC region are returned unchanged.
	EncryptBlock(address uint32, block []byte) ([]byte, error)
}
