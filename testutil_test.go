package psx

import (
	"encoding/binary"
	"testing"
)

// Instruction encoders. Register arguments follow assembler order
// (destination first), immediates are masked to their field widths.

func encR(funct, s, t, d, shamt uint32) uint32 {
	return s<<21 | t<<16 | d<<11 | shamt<<6 | funct
}

func encI(op, s, t, imm uint32) uint32 {
	return op<<26 | s<<21 | t<<16 | imm&0xFFFF
}

func encJ(op, addr uint32) uint32 {
	return op<<26 | addr>>2&0x3FFFFFF
}

func nop() uint32 { return 0 }

func sll(d, t, sh uint32) uint32 { return encR(0x00, 0, t, d, sh) }
func srl(d, t, sh uint32) uint32 { return encR(0x02, 0, t, d, sh) }
func sra(d, t, sh uint32) uint32 { return encR(0x03, 0, t, d, sh) }
func srlv(d, t, s uint32) uint32 { return encR(0x06, s, t, d, 0) }
func jr(s uint32) uint32         { return encR(0x08, s, 0, 0, 0) }
func jalr(d, s uint32) uint32    { return encR(0x09, s, 0, d, 0) }
func mfhi(d uint32) uint32       { return encR(0x10, 0, 0, d, 0) }
func mflo(d uint32) uint32       { return encR(0x12, 0, 0, d, 0) }
func div(s, t uint32) uint32     { return encR(0x1A, s, t, 0, 0) }
func divu(s, t uint32) uint32    { return encR(0x1B, s, t, 0, 0) }
func add(d, s, t uint32) uint32  { return encR(0x20, s, t, d, 0) }
func addu(d, s, t uint32) uint32 { return encR(0x21, s, t, d, 0) }
func sub(d, s, t uint32) uint32  { return encR(0x22, s, t, d, 0) }
func subu(d, s, t uint32) uint32 { return encR(0x23, s, t, d, 0) }
func and(d, s, t uint32) uint32  { return encR(0x24, s, t, d, 0) }
func or(d, s, t uint32) uint32   { return encR(0x25, s, t, d, 0) }
func slt(d, s, t uint32) uint32  { return encR(0x2A, s, t, d, 0) }
func sltu(d, s, t uint32) uint32 { return encR(0x2B, s, t, d, 0) }

func bltz(s, off uint32) uint32 { return encI(0x01, s, 0x00, off) }
func bgez(s, off uint32) uint32 { return encI(0x01, s, 0x01, off) }
func j(addr uint32) uint32      { return encJ(0x02, addr) }
func jal(addr uint32) uint32    { return encJ(0x03, addr) }

func beq(s, t, off uint32) uint32 { return encI(0x04, s, t, off) }
func bne(s, t, off uint32) uint32 { return encI(0x05, s, t, off) }
func blez(s, off uint32) uint32   { return encI(0x06, s, 0, off) }
func bgtz(s, off uint32) uint32   { return encI(0x07, s, 0, off) }

func addi(t, s, imm uint32) uint32  { return encI(0x08, s, t, imm) }
func addiu(t, s, imm uint32) uint32 { return encI(0x09, s, t, imm) }
func slti(t, s, imm uint32) uint32  { return encI(0x0A, s, t, imm) }
func sltiu(t, s, imm uint32) uint32 { return encI(0x0B, s, t, imm) }
func andi(t, s, imm uint32) uint32  { return encI(0x0C, s, t, imm) }
func ori(t, s, imm uint32) uint32   { return encI(0x0D, s, t, imm) }
func lui(t, imm uint32) uint32      { return encI(0x0F, 0, t, imm) }

func mfc0(t, reg uint32) uint32 { return 0x10<<26 | copSubMFC<<21 | t<<16 | reg<<11 }
func mtc0(t, reg uint32) uint32 { return 0x10<<26 | copSubMTC<<21 | t<<16 | reg<<11 }
func rfe() uint32               { return 0x10<<26 | copSubCO<<21 | functRFE }

func lb(t, s, imm uint32) uint32  { return encI(0x20, s, t, imm) }
func lh(t, s, imm uint32) uint32  { return encI(0x21, s, t, imm) }
func lw(t, s, imm uint32) uint32  { return encI(0x23, s, t, imm) }
func lbu(t, s, imm uint32) uint32 { return encI(0x24, s, t, imm) }
func lhu(t, s, imm uint32) uint32 { return encI(0x25, s, t, imm) }
func sb(t, s, imm uint32) uint32  { return encI(0x28, s, t, imm) }
func sh(t, s, imm uint32) uint32  { return encI(0x29, s, t, imm) }
func sw(t, s, imm uint32) uint32  { return encI(0x2B, s, t, imm) }

// biosProgram builds a full-size BIOS image with the given instruction
// words placed at the reset vector.
func biosProgram(words ...uint32) []byte {
	bios := make([]byte, BIOSSize)
	for i, w := range words {
		binary.LittleEndian.PutUint32(bios[i*4:], w)
	}
	return bios
}

// newTestCPU boots a CPU over an MMU whose BIOS holds the given program.
func newTestCPU(t *testing.T, words ...uint32) (*CPU, *MMU) {
	t.Helper()
	mmu, err := NewMMU(biosProgram(words...))
	if err != nil {
		t.Fatalf("NewMMU: %v", err)
	}
	return New(mmu), mmu
}

// newTestMMU builds an MMU with an all-zero BIOS image.
func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	mmu, err := NewMMU(make([]byte, BIOSSize))
	if err != nil {
		t.Fatalf("NewMMU: %v", err)
	}
	return mmu
}

// stepN executes n instructions, failing the test on any fault.
func stepN(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

// stepUntilFault executes up to limit instructions and returns the first
// fault. Fails the test if none occurs.
func stepUntilFault(t *testing.T, c *CPU, limit int) error {
	t.Helper()
	for i := 0; i < limit; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	t.Fatalf("no fault within %d steps", limit)
	return nil
}

// writeRAMWord stores a word into RAM through the MMU, failing on error.
func writeRAMWord(t *testing.T, m *MMU, addr, val uint32) {
	t.Helper()
	if err := m.Write(Word, addr, val); err != nil {
		t.Fatalf("RAM write at 0x%08X: %v", addr, err)
	}
}

// readWord loads a word through the MMU, failing on error.
func readWord(t *testing.T, m *MMU, addr uint32) uint32 {
	t.Helper()
	v, err := m.Read(Word, addr)
	if err != nil {
		t.Fatalf("read at 0x%08X: %v", addr, err)
	}
	return v
}

// checkReg compares a general register against an expected value.
func checkReg(t *testing.T, c *CPU, n int, want uint32) {
	t.Helper()
	if got := c.Registers().R[n]; got != want {
		t.Errorf("R%d = 0x%08X, want 0x%08X", n, got, want)
	}
}
