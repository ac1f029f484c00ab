package psx

import "math"

func init() {
	specialTable[0x10] = opMFHI
	specialTable[0x12] = opMFLO
	specialTable[0x1A] = opDIV
	specialTable[0x1B] = opDIVU
	specialTable[0x20] = opADD
	specialTable[0x21] = opADDU
	specialTable[0x22] = opSUB
	specialTable[0x23] = opSUBU
	specialTable[0x2A] = opSLT
	specialTable[0x2B] = opSLTU

	opcodeTable[0x08] = opADDI
	opcodeTable[0x09] = opADDIU
	opcodeTable[0x0A] = opSLTI
	opcodeTable[0x0B] = opSLTIU
}

// addOverflow reports signed overflow of a + b.
func addOverflow(a, b, sum uint32) bool {
	return ^(a^b)&(a^sum)&signBit != 0
}

// subOverflow reports signed overflow of a - b.
func subOverflow(a, b, diff uint32) bool {
	return (a^b)&(a^diff)&signBit != 0
}

// opADD is checked signed addition; overflow is fatal until exception
// dispatch exists.
func opADD(c *CPU, i Instruction) error {
	s, t := c.r(i.S()), c.r(i.T())
	sum := s + t
	c.finishLoad()
	if addOverflow(s, t, sum) {
		return &ArithmeticError{Op: "ADD", PC: c.currentPC}
	}
	c.setReg(i.D(), sum)
	return nil
}

func opADDU(c *CPU, i Instruction) error {
	v := c.r(i.S()) + c.r(i.T())
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

// opSUB is checked signed subtraction; overflow is fatal.
func opSUB(c *CPU, i Instruction) error {
	s, t := c.r(i.S()), c.r(i.T())
	diff := s - t
	c.finishLoad()
	if subOverflow(s, t, diff) {
		return &ArithmeticError{Op: "SUB", PC: c.currentPC}
	}
	c.setReg(i.D(), diff)
	return nil
}

func opSUBU(c *CPU, i Instruction) error {
	v := c.r(i.S()) - c.r(i.T())
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

// opADDI is checked signed addition with a sign-extended immediate;
// overflow is fatal.
func opADDI(c *CPU, i Instruction) error {
	s, imm := c.r(i.S()), i.ImmSE()
	sum := s + imm
	c.finishLoad()
	if addOverflow(s, imm, sum) {
		return &ArithmeticError{Op: "ADDI", PC: c.currentPC}
	}
	c.setReg(i.T(), sum)
	return nil
}

func opADDIU(c *CPU, i Instruction) error {
	v := c.r(i.S()) + i.ImmSE()
	c.finishLoad()
	c.setReg(i.T(), v)
	return nil
}

func opSLT(c *CPU, i Instruction) error {
	var v uint32
	if int32(c.r(i.S())) < int32(c.r(i.T())) {
		v = 1
	}
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

func opSLTU(c *CPU, i Instruction) error {
	var v uint32
	if c.r(i.S()) < c.r(i.T()) {
		v = 1
	}
	c.finishLoad()
	c.setReg(i.D(), v)
	return nil
}

// opSLTI compares against the sign-extended immediate as signed values.
func opSLTI(c *CPU, i Instruction) error {
	var v uint32
	if int32(c.r(i.S())) < int32(i.ImmSE()) {
		v = 1
	}
	c.finishLoad()
	c.setReg(i.T(), v)
	return nil
}

// opSLTIU compares against the sign-extended immediate as unsigned values.
func opSLTIU(c *CPU, i Instruction) error {
	var v uint32
	if c.r(i.S()) < i.ImmSE() {
		v = 1
	}
	c.finishLoad()
	c.setReg(i.T(), v)
	return nil
}

// opDIV is signed division into LO (quotient) and HI (remainder). The
// hardware writes defined garbage on division by zero and on
// MinInt32 / -1; this core treats both as fatal.
func opDIV(c *CPU, i Instruction) error {
	n, d := int32(c.r(i.S())), int32(c.r(i.T()))
	c.finishLoad()
	if d == 0 || (n == math.MinInt32 && d == -1) {
		return &ArithmeticError{Op: "DIV", PC: c.currentPC}
	}
	c.lo = uint32(n / d)
	c.hi = uint32(n % d)
	return nil
}

// opDIVU is unsigned division; division by zero is fatal.
func opDIVU(c *CPU, i Instruction) error {
	n, d := c.r(i.S()), c.r(i.T())
	c.finishLoad()
	if d == 0 {
		return &ArithmeticError{Op: "DIVU", PC: c.currentPC}
	}
	c.lo = n / d
	c.hi = n % d
	return nil
}

func opMFHI(c *CPU, i Instruction) error {
	c.finishLoad()
	c.setReg(i.D(), c.hi)
	return nil
}

func opMFLO(c *CPU, i Instruction) error {
	c.finishLoad()
	c.setReg(i.D(), c.lo)
	return nil
}
