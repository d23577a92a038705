package piopwm

import "sync/atomic"

// txCell is a single-slot hand-off from the controller side to the
// simulated state machine. A store overwrites any pending value
// (last-write-wins) and a take drains the slot. Single producer,
// single consumer, no blocking on either side.
type txCell struct {
	v atomic.Uint64
}

const txCellFull = 1 << 32

func (c *txCell) Put(value uint32) {
	c.v.Store(txCellFull | uint64(value))
}

func (c *txCell) take() (uint32, bool) {
	old := c.v.Swap(0)
	return uint32(old), old&txCellFull != 0
}

// Instruction decoding masks, mirroring the encoders in
// github.com/tinygo-org/pio/rp2-pio. Only the subset the PWM program
// uses is implemented.
const (
	simInstrMsk  = 0xe000
	simInstrJMP  = 0x0000
	simInstrMOV  = 0xa000
	simInstrPULL = 0x8000 // shares major bits with PUSH, bit 7 selects PULL

	simJmpAlways    = 0
	simJmpYNZeroDec = 4
	simJmpXNotY     = 5

	simRegX   = 1
	simRegY   = 2
	simRegISR = 6
	simRegOSR = 7
)

// Simulator executes the PWM program word-for-word on the host. It
// models the registers, the optional 1-bit sideset driving the pin and
// the TX hand-off, and is the test double for PIOPWM: both satisfy the
// same duty-setting surface.
type Simulator struct {
	tx       txCell
	maxCount uint32

	pc  uint8
	x   uint32
	y   uint32
	isr uint32
	osr uint32
	pin bool
}

// NewSimulator returns a Simulator with maxCount as its countdown
// reload value, primed the same way NewPIOPWM primes the hardware.
// As on hardware the duty threshold is undefined (zero) until the
// first SetDuty.
func NewSimulator(maxCount uint32) *Simulator {
	s := &Simulator{maxCount: maxCount}
	// TxPut, exec pull block, exec mov isr, osr.
	s.tx.Put(maxCount)
	s.exec(0x80a0) //  pull   block
	s.exec(0xa0c7) //  mov    isr, osr
	return s
}

// SetDuty requests a new duty threshold, clamped to [-1, maxCount].
// Overwrites any value still pending from an earlier call.
func (s *Simulator) SetDuty(value int32) {
	s.tx.Put(uint32(clampDuty(value, s.maxCount)))
}

// Put queues a raw unclamped word, as a direct TX FIFO write would.
func (s *Simulator) Put(value uint32) {
	s.tx.Put(value)
}

// Pin reports the current output pin level.
func (s *Simulator) Pin() bool { return s.pin }

// Threshold reports the live duty threshold register (X).
func (s *Simulator) Threshold() uint32 { return s.x }

// Step executes the instruction at the current program counter.
func (s *Simulator) Step() {
	if jmp := s.exec(pwmInstructions[s.pc]); jmp >= 0 {
		s.pc = uint8(jmp)
	} else if s.pc == pwmWrap {
		s.pc = pwmWrapTarget
	} else {
		s.pc++
	}
}

// RunPeriod runs one full PWM period and reports how many countdown
// steps the pin spent high. The pin is sampled at the top of each
// inner iteration, so totalSteps is maxCount+1 and highSteps equals
// the applied duty threshold (0 for the never-on sentinel).
func (s *Simulator) RunPeriod() (highSteps, totalSteps uint32) {
	for {
		if s.pc == 3 { // top of countloop
			totalSteps++
			if s.pin {
				highSteps++
			}
		}
		s.Step()
		if s.pc == pwmWrapTarget {
			return highSteps, totalSteps
		}
	}
}

// exec executes a single instruction without touching the program
// counter, as the hardware INSTR register does. Returns the jump
// target, or -1 if the instruction does not branch.
func (s *Simulator) exec(instr uint16) int16 {
	// Optional sideset: bit 12 enables, bit 11 carries the pin level.
	if instr&(1<<12) != 0 {
		s.pin = instr&(1<<11) != 0
	}
	switch {
	case instr&simInstrMsk == simInstrJMP:
		addr := int16(instr & 0x1f)
		switch uint8(instr>>5) & 0b111 {
		case simJmpAlways:
			return addr
		case simJmpXNotY:
			if s.x != s.y {
				return addr
			}
		case simJmpYNZeroDec:
			taken := s.y != 0
			s.y-- // decremented regardless of the branch
			if taken {
				return addr
			}
		}
	case instr&simInstrMsk == simInstrPULL && instr&(1<<7) != 0:
		block := instr&(1<<5) != 0
		if v, ok := s.tx.take(); ok {
			s.osr = v
		} else if !block {
			// Hardware quirk the program depends on: a non-blocking
			// pull on an empty FIFO copies X to the OSR.
			s.osr = s.x
		}
		// A blocking pull on an empty FIFO stalls; the simulator is
		// only ever primed with data in the slot, so nothing to do.
	case instr&simInstrMsk == simInstrMOV:
		src := s.movSrc(uint8(instr) & 0b111)
		switch uint8(instr>>5) & 0b111 {
		case simRegX:
			s.x = src
		case simRegY:
			s.y = src
		case simRegISR:
			s.isr = src
		case simRegOSR:
			s.osr = src
		}
	}
	return -1
}

func (s *Simulator) movSrc(reg uint8) uint32 {
	switch reg {
	case simRegX:
		return s.x
	case simRegY:
		return s.y
	case simRegISR:
		return s.isr
	default:
		return s.osr
	}
}
