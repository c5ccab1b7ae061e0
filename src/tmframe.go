package ccsds

// TransferFrame is a view of a decoded payload as a TM transfer frame.
// Only the 6 byte primary header is interpreted:
//
//	version(2) scid(10) vcid(3) ocf(1) mc_count(8) vc_count(8) data_field_status(16)
type TransferFrame []byte

const TM_PRIMARY_HEADER_LEN = 6

const FirstHeaderPointerIdle = 0x7FE
const FirstHeaderPointerNoPacket = 0x7FF

func (f TransferFrame) Valid() bool {
	return len(f) >= TM_PRIMARY_HEADER_LEN
}

// Version is the transfer frame version number, 0 for TM.
func (f TransferFrame) Version() int {
	return int(f[0] >> 6)
}

func (f TransferFrame) SpacecraftID() int {
	return (int(f[0]&0x3F) << 4) | int(f[1]>>4)
}

func (f TransferFrame) VirtualChannel() int {
	return int(f[1]>>1) & 0x07
}

func (f TransferFrame) OCFPresent() bool {
	return f[1]&0x01 != 0
}

func (f TransferFrame) MasterChannelFrameCount() int {
	return int(f[2])
}

func (f TransferFrame) VirtualChannelFrameCount() int {
	return int(f[3])
}

func (f TransferFrame) SecondaryHeaderPresent() bool {
	return f[4]&0x80 != 0
}

// FirstHeaderPointer is the offset of the first packet header in the data field.
func (f TransferFrame) FirstHeaderPointer() int {
	return (int(f[4]&0x07) << 8) | int(f[5])
}
