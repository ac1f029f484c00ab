package psx

func init() {
	specialTable[0x08] = opJR
	specialTable[0x09] = opJALR

	opcodeTable[0x01] = opRegimm
	opcodeTable[0x02] = opJ
	opcodeTable[0x03] = opJAL
	opcodeTable[0x04] = opBEQ
	opcodeTable[0x05] = opBNE
	opcodeTable[0x06] = opBLEZ
	opcodeTable[0x07] = opBGTZ
}

// REGIMM sub-opcodes in the t field.
const (
	regimmBLTZ   = 0x00
	regimmBGEZ   = 0x01
	regimmBLTZAL = 0x10
	regimmBGEZAL = 0x11
)

// opJ replaces the page offset of nextPC. The delay-slot instruction at
// pc executes before control arrives at the target.
func opJ(c *CPU, i Instruction) error {
	c.finishLoad()
	c.nextPC = c.pc&0xF0000000 | i.Target()
	return nil
}

// opJAL is J plus the return address (the nextPC being replaced) in R31.
func opJAL(c *CPU, i Instruction) error {
	ra := c.nextPC
	c.finishLoad()
	c.nextPC = c.pc&0xF0000000 | i.Target()
	c.setReg(31, ra)
	return nil
}

func opJR(c *CPU, i Instruction) error {
	target := c.r(i.S())
	c.finishLoad()
	c.nextPC = target
	return nil
}

// opJALR jumps to R[s] and leaves the return address in R[d].
func opJALR(c *CPU, i Instruction) error {
	target := c.r(i.S())
	ra := c.nextPC
	c.finishLoad()
	c.nextPC = target
	c.setReg(i.D(), ra)
	return nil
}

func opBEQ(c *CPU, i Instruction) error {
	taken := c.r(i.S()) == c.r(i.T())
	c.finishLoad()
	if taken {
		c.branch(i.ImmSE())
	}
	return nil
}

func opBNE(c *CPU, i Instruction) error {
	taken := c.r(i.S()) != c.r(i.T())
	c.finishLoad()
	if taken {
		c.branch(i.ImmSE())
	}
	return nil
}

func opBLEZ(c *CPU, i Instruction) error {
	taken := int32(c.r(i.S())) <= 0
	c.finishLoad()
	if taken {
		c.branch(i.ImmSE())
	}
	return nil
}

func opBGTZ(c *CPU, i Instruction) error {
	taken := int32(c.r(i.S())) > 0
	c.finishLoad()
	if taken {
		c.branch(i.ImmSE())
	}
	return nil
}

// opRegimm dispatches the REGIMM class on the t field. Only BLTZ and BGEZ
// are implemented; the and-link forms fault.
func opRegimm(c *CPU, i Instruction) error {
	switch i.T() {
	case regimmBLTZ:
		taken := int32(c.r(i.S())) < 0
		c.finishLoad()
		if taken {
			c.branch(i.ImmSE())
		}
	case regimmBGEZ:
		taken := int32(c.r(i.S())) >= 0
		c.finishLoad()
		if taken {
			c.branch(i.ImmSE())
		}
	case regimmBLTZAL:
		return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: "BLTZAL"}
	case regimmBGEZAL:
		return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: "BGEZAL"}
	default:
		return &OpcodeError{Word: uint32(i), PC: c.currentPC}
	}
	return nil
}
