// Package psx implements the processor core of a PlayStation emulator.
//
// The PSX main CPU is a 32-bit little-endian MIPS R3000A derivative with:
//   - Thirty-two 32-bit general-purpose registers, R0 hardwired to zero
//   - HI/LO registers receiving multiply and divide results
//   - A branch delay slot: the instruction after a branch or jump executes
//     before control transfers
//   - A load delay slot: the instruction after a load does not yet see the
//     loaded value in the target register
//   - A system-control coprocessor (COP0) governing cache isolation and
//     exception state
//   - A 4KB direct-mapped instruction cache of 256 four-word lines
//
// The core is cycle-stepped: every Step retires one instruction and
// advances the bus peripherals by one cycle.
package psx

// Bus provides memory access for the CPU. Sub-word accesses carry their
// width in sz; addresses are virtual and folded onto the physical map by
// the implementation.
type Bus interface {
	Read(sz Size, addr uint32) (uint32, error)
	Write(sz Size, addr uint32, val uint32) error
	// Step advances bus-side peripherals by the given CPU cycle count.
	Step(cycles uint32)
	// ICacheEnabled reports whether instruction fetches may be cached.
	ICacheEnabled() bool
	// ICacheTagTest reports whether isolated stores target line tags
	// rather than data words.
	ICacheTagTest() bool
}

// ResetPC is the address of the first instruction after reset, at the
// start of the BIOS ROM in KSEG1.
const ResetPC uint32 = 0xBFC00000

// kseg1Start is the first uncached address; fetches at or above it bypass
// the instruction cache.
const kseg1Start uint32 = 0xA0000000

const signBit uint32 = 0x80000000

// Registers is a snapshot of the programmer-visible CPU state.
type Registers struct {
	R         [32]uint32 // general-purpose registers, R[0] always 0
	PC        uint32     // address of the next instruction to fetch
	NextPC    uint32     // address after PC; branch targets land here
	CurrentPC uint32     // address of the instruction just issued
	HI, LO    uint32
	Status    uint32 // COP0 r12
	Cause     uint32 // COP0 r13
	EPC       uint32 // COP0 r14
}

// CPU is the R3000A processor core.
type CPU struct {
	reg [32]uint32

	// The PC triple implements the branch delay slot. Branches and jumps
	// only ever write nextPC, so the instruction already at pc executes
	// before control arrives at the target; fall-through is nextPC += 4
	// at the top of Step.
	pc        uint32 // next fetch address
	nextPC    uint32
	currentPC uint32 // address of the instruction being executed

	hi, lo uint32

	// Pending load slot. loadReg 0 means idle: R0 is a write sink, so
	// retiring the idle slot is a no-op and retirement stays branch-free.
	loadReg uint32
	loadVal uint32

	cop0   Cop0
	icache ICache

	bus    Bus
	cycles uint64
}

// New creates a CPU wired to the given bus and performs a hardware reset.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset returns the core to its power-on state: registers, HI/LO and COP0
// cleared, PC at the BIOS entry point, every cache line invalid.
func (c *CPU) Reset() {
	c.reg = [32]uint32{}
	c.pc = ResetPC
	c.nextPC = ResetPC + 4
	c.currentPC = ResetPC
	c.hi, c.lo = 0, 0
	c.loadReg, c.loadVal = 0, 0
	c.cop0 = Cop0{}
	c.icache.Reset()
	c.cycles = 0
}

// Step executes a single instruction: fetch at pc, rotate the PC pipeline,
// dispatch, then advance the peripherals by one cycle.
func (c *CPU) Step() error {
	word, err := c.fetch()
	if err != nil {
		return err
	}

	c.currentPC = c.pc
	c.pc = c.nextPC
	c.nextPC = c.pc + 4

	if err := c.execute(Instruction(word)); err != nil {
		return err
	}

	c.bus.Step(1)
	c.cycles++
	return nil
}

// fetch reads the instruction word at pc, through the instruction cache
// when it is enabled and pc is in a cacheable segment. KSEG1 and KSEG2
// fetches always go straight to the bus.
func (c *CPU) fetch() (uint32, error) {
	if c.pc < kseg1Start && c.bus.ICacheEnabled() {
		return c.icache.Fetch(c.bus, c.pc)
	}
	return c.bus.Read(Word, c.pc)
}

// execute dispatches one instruction through the opcode tables.
func (c *CPU) execute(i Instruction) error {
	h := opcodeTable[i.Opcode()]
	if h == nil {
		return &OpcodeError{Word: uint32(i), PC: c.currentPC, Name: opcodeNames[i.Opcode()]}
	}
	return h(c, i)
}

// r returns the value of general register n.
func (c *CPU) r(n uint32) uint32 {
	return c.reg[n]
}

// setReg writes general register n, keeping R0 hardwired to zero.
func (c *CPU) setReg(n, v uint32) {
	c.reg[n] = v
	c.reg[0] = 0
}

// finishLoad retires any pending delayed load into its target register.
// Every instruction that is not itself a load goes through here after
// reading its operands and before committing its own result, which is
// what keeps the loaded value invisible to the instruction sitting in the
// load delay slot.
func (c *CPU) finishLoad() {
	c.reg[c.loadReg] = c.loadVal
	c.reg[0] = 0
	c.loadReg, c.loadVal = 0, 0
}

// scheduleLoad places a load result in the pending slot. A previous
// pending load for a different register retires now; one for the same
// register is superseded and dropped.
func (c *CPU) scheduleLoad(n, v uint32) {
	if c.loadReg != n {
		c.finishLoad()
	}
	c.loadReg, c.loadVal = n, v
}

// branch points nextPC at the branch target: the delay-slot address in pc
// plus the shifted immediate.
func (c *CPU) branch(offset uint32) {
	c.nextPC = c.pc + offset<<2
}

// Cycles returns the number of instructions retired since reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Registers returns a snapshot of the current architectural state. A
// pending delayed load is not retired by taking a snapshot.
func (c *CPU) Registers() Registers {
	return Registers{
		R:         c.reg,
		PC:        c.pc,
		NextPC:    c.nextPC,
		CurrentPC: c.currentPC,
		HI:        c.hi,
		LO:        c.lo,
		Status:    c.cop0.status,
		Cause:     c.cop0.cause,
		EPC:       c.cop0.epc,
	}
}

// SetState establishes exact architectural state without a hardware
// reset. This is intended for testing. The pending load slot is cleared
// and R0 forced to zero.
func (c *CPU) SetState(regs Registers) {
	c.reg = regs.R
	c.reg[0] = 0
	c.pc = regs.PC
	c.nextPC = regs.NextPC
	c.currentPC = regs.CurrentPC
	c.hi, c.lo = regs.HI, regs.LO
	c.loadReg, c.loadVal = 0, 0
	c.cop0.status = regs.Status
	c.cop0.cause = regs.Cause
	c.cop0.epc = regs.EPC
}
