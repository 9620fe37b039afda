package encodbin

import "encoding/binary"

// LE is the byte order used for every packed account layout and instruction
// payload in this program. Account data is read directly as raw bytes inside
// the runtime, so the layout must match the target validator's native
// little-endian representation exactly.
var LE binary.ByteOrder = binary.LittleEndian
