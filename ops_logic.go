package psx

func init() {
	specialTable[0x00] = opSLL
	specialTable[0x02] = opSRL
	specialTable[0x03] = opSRA
	specialTable[0x06] = opSRLV
	specialTable[0x24] = opAND
	specialTable[0x25] = opOR

	opcodeTable[0x0C] = opANDI
	opcodeTable[0x0D] = opORI
	opcodeTable[0x0F] = opLUI
}

// opSLL shifts left by the immediate amount. SLL R0,R0,0 is the canonical
// NOP encoding.
func opSLL(c *CPU, i Instruction) error {
	v := c.r(i.T()) << i.Shamt()
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

func opSRL(c *CPU, i Instruction) error {
	v := c.r(i.T()) >> i.Shamt()
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

// opSRA is an arithmetic shift: the sign bit fills the vacated positions.
func opSRA(c *CPU, i Instruction) error {
	v := uint32(int32(c.r(i.T())) >> i.Shamt())
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

// opSRLV shifts right by the low five bits of R[s].
func opSRLV(c *CPU, i Instruction) error {
	v := c.r(i.T()) >> (c.r(i.S()) & 0x1F)
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

func opAND(c *CPU, i Instruction) error {
	v := c.r(i.S()) & c.r(i.T())
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

func opOR(c *CPU, i Instruction) error {
	v := c.r(i.S()) | c.r(i.T())
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

// opANDI uses the zero-extended immediate.
func opANDI(c *CPU, i Instruction) error {
	v := c.r(i.S()) & i.Imm()
	c.finishLoad()
	c.setReg(i.T(), v)
	return nil
}

// opORI uses the zero-extended immediate.
func opORI(c *CPU, i Instruction) error {
	v := c.r(i.S()) | i.Imm()
	c.finishLoad()
	c.setReg(i.T(), v)
	return nil
}

// opLUI places the immediate in the upper halfword; the lower halfword is
// cleared.
func opLUI(c *CPU, i Instruction) error {
	c.finishLoad()
	c.setReg(i.T(), i.Imm()<<16)
	return nil
}
