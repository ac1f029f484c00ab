package psx

func init() {
	opcodeTable[0x20] = opLB
	opcodeTable[0x21] = opLH
	opcodeTable[0x23] = opLW
	opcodeTable[0x24] = opLBU
	opcodeTable[0x25] = opLHU
	opcodeTable[0x28] = opSB
	opcodeTable[0x29] = opSH
	opcodeTable[0x2B] = opSW
}

// memAddr computes the effective address R[s] + sign-extended offset.
func memAddr(c *CPU, i Instruction) uint32 {
	return c.r(i.S()) + i.ImmSE()
}

// Loads land in the pending-load slot, not the register file: the value
// only becomes visible after the next instruction retires it.

// opLB loads a byte, sign-extended.
func opLB(c *CPU, i Instruction) error {
	v, err := c.bus.Read(Byte, memAddr(c, i))
	if err != nil {
		return err
	}
	c.scheduleLoad(i.T(), uint32(int32(int8(v))))
	return nil
}

// opLH loads a halfword, sign-extended.
func opLH(c *CPU, i Instruction) error {
	v, err := c.bus.Read(Halfword, memAddr(c, i))
	if err != nil {
		return err
	}
	c.scheduleLoad(i.T(), uint32(int32(int16(v))))
	return nil
}

// opLBU loads a byte, zero-extended.
func opLBU(c *CPU, i Instruction) error {
	v, err := c.bus.Read(Byte, memAddr(c, i))
	if err != nil {
		return err
	}
	c.scheduleLoad(i.T(), v)
	return nil
}

// opLHU loads a halfword, zero-extended.
func opLHU(c *CPU, i Instruction) error {
	v, err := c.bus.Read(Halfword, memAddr(c, i))
	if err != nil {
		return err
	}
	c.scheduleLoad(i.T(), v)
	return nil
}

func opLW(c *CPU, i Instruction) error {
	v, err := c.bus.Read(Word, memAddr(c, i))
	if err != nil {
		return err
	}
	c.scheduleLoad(i.T(), v)
	return nil
}

// store writes the low sz bytes of R[t] to the effective address. While
// COP0 has the cache isolated the store never reaches the bus: it lands
// in the instruction cache instead, invalidating the covering line.
func store(c *CPU, i Instruction, sz Size) error {
	addr := memAddr(c, i)
	v := c.r(i.T())
	c.finishLoad()

	if c.cop0.CacheIsolated() {
		c.icache.StoreIsolated(addr, v, c.bus.ICacheTagTest())
		return nil
	}
	return c.bus.Write(sz, addr, v)
}

func opSB(c *CPU, i Instruction) error {
	return store(c, i, Byte)
}

func opSH(c *CPU, i Instruction) error {
	return store(c, i, Halfword)
}

func opSW(c *CPU, i Instruction) error {
	return store(c, i, Word)
}
