package km2

// Opcode is a 16-bit rule-stream opcode word.
type Opcode uint16

const (
	OpString     Opcode = 0x00F0
	OpVariable   Opcode = 0x00F1
	OpReference  Opcode = 0x00F2
	OpPredefined Opcode = 0x00F3
	OpModifier   Opcode = 0x00F4
	OpAnyOf      Opcode = 0x00F5
	OpAnd        Opcode = 0x00F6
	OpNanyOf     Opcode = 0x00F7
	OpAny        Opcode = 0x00F8
	OpSwitch     Opcode = 0x00F9
)
