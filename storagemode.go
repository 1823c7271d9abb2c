package pgen

// StorageMode is the record encoding declared by the third byte of a .pgen
type StorageMode byte

const (
	// StorageModeFixedWidth2Bit stores every variant as ceil(samples/4) bytes
	// of 2-bit hardcalls. It is the only mode that is decoded.
	StorageModeFixedWidth2Bit StorageMode = 0x02
)

func (m StorageMode) String() string {
	switch m {
	case StorageModeFixedWidth2Bit:
		return "FixedWidth2Bit"

	default:
		return "Illegal selection"
	}
}
