package psx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// cpuSerializeVersion is incremented whenever the binary layout changes.
const cpuSerializeVersion = 1

// SerializeSize is the number of bytes produced by CPU.Serialize: one
// version byte, the architectural registers, the pending load slot, COP0,
// the cycle counter, and every instruction cache line.
const SerializeSize = 1 + 32*4 + 3*4 + 2*4 + 2*4 + 3*4 + 8 + icacheLines*(4+1+icacheLineWords*4)

// Serialize writes the full CPU-owned state into buf, which must be at
// least SerializeSize bytes. The bus reference is not included. All
// fields are little-endian, matching the machine being emulated.
func (c *CPU) Serialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return errors.New("psx: serialize buffer too small")
	}

	buf[0] = cpuSerializeVersion
	le := binary.LittleEndian
	off := 1

	put := func(v uint32) {
		le.PutUint32(buf[off:], v)
		off += 4
	}

	for i := range c.reg {
		put(c.reg[i])
	}
	put(c.pc)
	put(c.nextPC)
	put(c.currentPC)
	put(c.hi)
	put(c.lo)
	put(c.loadReg)
	put(c.loadVal)
	put(c.cop0.status)
	put(c.cop0.cause)
	put(c.cop0.epc)

	le.PutUint64(buf[off:], c.cycles)
	off += 8

	for l := range c.icache.lines {
		line := &c.icache.lines[l]
		put(line.tag)
		buf[off] = byte(line.valid)
		off++
		for w := range line.data {
			put(line.data[w])
		}
	}

	return nil
}

// Deserialize restores CPU state previously written by Serialize. The bus
// reference is left untouched.
func (c *CPU) Deserialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return errors.New("psx: deserialize buffer too small")
	}
	if buf[0] != cpuSerializeVersion {
		return fmt.Errorf("psx: unknown serialize version %d", buf[0])
	}

	le := binary.LittleEndian
	off := 1

	get := func() uint32 {
		v := le.Uint32(buf[off:])
		off += 4
		return v
	}

	for i := range c.reg {
		c.reg[i] = get()
	}
	c.pc = get()
	c.nextPC = get()
	c.currentPC = get()
	c.hi = get()
	c.lo = get()
	c.loadReg = get()
	c.loadVal = get()
	c.cop0.status = get()
	c.cop0.cause = get()
	c.cop0.epc = get()

	c.cycles = le.Uint64(buf[off:])
	off += 8

	for l := range c.icache.lines {
		line := &c.icache.lines[l]
		line.tag = get()
		line.valid = uint32(buf[off])
		off++
		for w := range line.data {
			line.data[w] = get()
		}
	}

	return nil
}
