package psx

func init() {
	opcodeTable[0x10] = opCOP0
}

// COP0 sub-opcodes in the s field.
const (
	copSubMFC = 0x00
	copSubMTC = 0x04
	copSubCO  = 0x10 // coprocessor-operation group; funct selects the op
)

// functRFE is the only operation in the CO group the R3000A's system
// coprocessor supports on the PSX; the TLB instructions have no TLB to
// talk to.
const functRFE = 0x10

// opCOP0 handles system-control coprocessor instructions.
//
// MFC0 behaves like a memory load: the register value goes through the
// pending-load slot and is not visible to the next instruction.
func opCOP0(c *CPU, i Instruction) error {
	switch i.S() {
	case copSubMFC:
		v, ok := c.cop0.read(i.D())
		if !ok {
			return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: "MFC0"}
		}
		c.scheduleLoad(i.T(), v)

	case copSubMTC:
		v := c.r(i.T())
		c.finishLoad()
		if !c.cop0.write(i.D(), v) {
			return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: "MTC0"}
		}

	case copSubCO:
		if i.Funct() != functRFE {
			return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: "COP0"}
		}
		c.finishLoad()
		c.cop0.rfe()

	default:
		return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: "COP0"}
	}
	return nil
}
