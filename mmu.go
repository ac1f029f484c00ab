package psx

import (
	"fmt"
	"log"
)

// Physical memory map. KUSEG, KSEG0 and KSEG1 all mirror these regions
// through the segment mask table below.
//
//	00000000  2048K  main RAM
//	1F000000  8192K  Expansion Region 1 (nothing connected)
//	1F801000     4K  I/O ports
//	1F802000    66B  Expansion Region 2 (DUART)
//	1FC00000   512K  BIOS ROM
//	FFFE0130         cache control (KSEG2)
const (
	RAMStart uint32 = 0x00000000
	RAMSize  uint32 = 2 * 1024 * 1024
	RAMEnd   uint32 = RAMStart + RAMSize

	Expansion1Start uint32 = 0x1F000000
	Expansion1Size  uint32 = 8 * 1024 * 1024
	Expansion1End   uint32 = Expansion1Start + Expansion1Size

	memControlStart uint32 = 0x1F801000
	memControlEnd   uint32 = memControlStart + memControlWords*4

	ramSizeReg uint32 = 0x1F801060

	irqStatusReg uint32 = 0x1F801070
	irqMaskReg   uint32 = 0x1F801074

	dmaStart uint32 = 0x1F801080
	dmaEnd   uint32 = 0x1F801100

	timerStart uint32 = 0x1F801100
	timerEnd   uint32 = 0x1F801130

	spuStart uint32 = 0x1F801C00
	spuEnd   uint32 = 0x1F801E80

	Expansion2Start uint32 = 0x1F802000
	Expansion2Size  uint32 = 66
	Expansion2End   uint32 = Expansion2Start + Expansion2Size

	BIOSStart uint32 = 0x1FC00000
	BIOSSize  uint32 = 512 * 1024
	BIOSEnd   uint32 = BIOSStart + BIOSSize

	cacheControlReg uint32 = 0xFFFE0130
)

// memControlWords is the number of memory control 1 registers (expansion
// base addresses and access delays).
const memControlWords = 9

// Cache control register bits.
const (
	cacheControlEnable  uint32 = 1 << 11 // instruction cache on
	cacheControlTagTest uint32 = 1 << 2  // isolated stores hit line tags
)

// segmentMask folds KUSEG, KSEG0 and KSEG1 onto the same physical
// regions, indexed by the top three address bits.
var segmentMask = [8]uint32{
	// KUSEG: 2048MB
	0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF,
	// KSEG0: 512MB, cached
	0x7FFFFFFF,
	// KSEG1: 512MB, uncached
	0x1FFFFFFF,
	// KSEG2: 1024MB
	0xFFFFFFFF, 0xFFFFFFFF,
}

// MMU owns all memory and device-facing state: RAM, the BIOS image, the
// memory control registers, the interrupt controller and the timers. The
// CPU issues every data access through Read and Write.
type MMU struct {
	bios []byte
	ram  []byte

	memControl   [memControlWords]uint32
	ramSize      uint32 // RAM_SIZE register (memory control 2)
	cacheControl uint32 // memory control 3, in KSEG2

	irq    irqState
	timers Timers
}

// NewMMU builds the memory system around a BIOS image of up to 512KB.
// The image is copied; callers keep ownership of their slice.
func NewMMU(bios []byte) (*MMU, error) {
	if uint32(len(bios)) > BIOSSize {
		return nil, fmt.Errorf("psx: BIOS image is %d bytes, limit %d", len(bios), BIOSSize)
	}
	return &MMU{
		bios: append([]byte(nil), bios...),
		ram:  make([]byte, RAMSize),
	}, nil
}

// Reset clears RAM and every register. The BIOS image is preserved.
func (m *MMU) Reset() {
	clear(m.ram)
	m.memControl = [memControlWords]uint32{}
	m.ramSize = 0
	m.cacheControl = 0
	m.irq = irqState{}
	m.timers = Timers{}
}

// Step advances the bus-side peripherals by the given CPU cycle count.
func (m *MMU) Step(cycles uint32) {
	m.timers.Step(cycles)
}

// ICacheEnabled reports whether cache control has the instruction cache
// switched on.
func (m *MMU) ICacheEnabled() bool {
	return m.cacheControl&cacheControlEnable != 0
}

// ICacheTagTest reports whether cache control is in tag-test mode, where
// isolated stores replace line tags instead of data words.
func (m *MMU) ICacheTagTest() bool {
	return m.cacheControl&cacheControlTagTest != 0
}

// InterruptPending reports whether any unmasked interrupt is latched.
func (m *MMU) InterruptPending() bool {
	return m.irq.Pending()
}

// Read loads sz bytes from addr, assembled little-endian. I/O registers
// return their full value regardless of sz.
func (m *MMU) Read(sz Size, addr uint32) (uint32, error) {
	addr &= segmentMask[addr>>29]

	switch {
	case addr < RAMEnd:
		if addr+uint32(sz) > RAMEnd {
			return 0, &BusError{Addr: addr}
		}
		return readLE(m.ram, addr, sz), nil

	case addr >= BIOSStart && addr < BIOSEnd:
		offset := addr - BIOSStart
		if offset+uint32(sz) > uint32(len(m.bios)) {
			return 0, &BusError{Addr: addr}
		}
		return readLE(m.bios, offset, sz), nil

	case addr >= Expansion1Start && addr < Expansion1End:
		// Nothing on the expansion port: the data lines float high.
		return sz.Mask(), nil

	case addr >= memControlStart && addr < memControlEnd:
		return m.memControl[(addr-memControlStart)>>2], nil

	case addr == ramSizeReg:
		return m.ramSize, nil

	case addr == irqStatusReg:
		return uint32(m.irq.status), nil

	case addr == irqMaskReg:
		return uint32(m.irq.mask), nil

	case addr >= dmaStart && addr < dmaEnd:
		return 0, nil

	case addr >= timerStart && addr < timerEnd:
		return m.timers.Read(addr - timerStart)

	case addr >= spuStart && addr < spuEnd:
		return 0, nil

	case addr == cacheControlReg:
		return m.cacheControl, nil
	}

	return 0, &BusError{Addr: addr}
}

// Write stores sz bytes to addr, LSB first. I/O registers take the full
// value regardless of sz.
func (m *MMU) Write(sz Size, addr uint32, val uint32) error {
	addr &= segmentMask[addr>>29]

	switch {
	case addr < RAMEnd:
		if addr+uint32(sz) > RAMEnd {
			return &BusError{Addr: addr, Write: true}
		}
		writeLE(m.ram, addr, sz, val)

	case addr >= BIOSStart && addr < BIOSEnd:
		return &BusError{Addr: addr, Write: true}

	case addr >= Expansion1Start && addr < Expansion1End:
		return &BusError{Addr: addr, Write: true}

	case addr >= memControlStart && addr < memControlEnd:
		m.memControl[(addr-memControlStart)>>2] = val

	case addr == ramSizeReg:
		m.ramSize = val

	case addr == irqStatusReg:
		m.irq.status = uint16(val)

	case addr == irqMaskReg:
		m.irq.mask = uint16(val)

	case addr >= dmaStart && addr < dmaEnd:
		log.Printf("[psx] ignoring DMA write 0x%08X to 0x%08X", val, addr)

	case addr >= timerStart && addr < timerEnd:
		return m.timers.Write(addr-timerStart, val)

	case addr >= spuStart && addr < spuEnd:
		// SPU registers are not modeled.

	case addr >= Expansion2Start && addr < Expansion2End:
		// Expansion 2 carries the POST display and debug UART.

	case addr == cacheControlReg:
		m.cacheControl = val

	default:
		return &BusError{Addr: addr, Write: true}
	}

	return nil
}

// readLE assembles sz little-endian bytes starting at mem[offset].
func readLE(mem []byte, offset uint32, sz Size) uint32 {
	var word uint32
	for i := uint32(0); i < uint32(sz); i++ {
		word |= uint32(mem[offset+i]) << (8 * i)
	}
	return word
}

// writeLE stores the low sz bytes of val at mem[offset], LSB first.
func writeLE(mem []byte, offset uint32, sz Size, val uint32) {
	for i := uint32(0); i < uint32(sz); i++ {
		mem[offset+i] = byte(val >> (8 * i))
	}
}
