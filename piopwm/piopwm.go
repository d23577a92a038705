//go:build rp2040 || rp2350

package piopwm

import (
	"errors"
	"machine"
	"math"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

var (
	errMaxCount  = errors.New("piopwm:max count out of range")
	errCountFreq = errors.New("piopwm:count frequency must be positive")
)

// PIOPWM implements a PWM waveform generator on one pin using a PIO
// state machine. The duty cycle is updated glitch-free while the state
// machine runs; the PWM frequency is fixed at construction.
type PIOPWM struct {
	sm            pio.StateMachine
	maxCount      uint32
	offsetPlusOne uint8
}

// NewPIOPWM returns a PIOPWM driving pin with a period of maxCount+1
// counter ticks at countFrequency ticks per second. The state machine
// clock is set to 2*countFrequency since one counter tick spans two
// instructions. The returned PIOPWM is running with the output off;
// call SetDuty to raise it.
func NewPIOPWM(sm pio.StateMachine, pin machine.Pin, maxCount, countFrequency uint32) (*PIOPWM, error) {
	if maxCount == 0 || maxCount > math.MaxInt32 {
		return nil, errMaxCount
	} else if countFrequency == 0 {
		return nil, errCountFreq
	}
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	Pio := sm.PIO()

	offset, err := Pio.AddProgram(pwmInstructions, pwmOrigin)
	if err != nil {
		return nil, err
	}
	pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	sm.SetPindirsConsecutive(pin, 1, true)

	cfg := pio.DefaultStateMachineConfig()
	cfg.SetSidesetParams(pwmSidesetBits, true, false)
	cfg.SetSidesetPins(pin)
	cfg.SetWrap(offset+pwmWrapTarget, offset+pwmWrap)
	whole, frac, err := pio.ClkDivFromFrequency(2*countFrequency, machine.CPUFrequency())
	if err != nil {
		return nil, err
	}
	cfg.SetClkDivIntFrac(whole, frac)
	sm.Init(offset, cfg)

	dev := &PIOPWM{sm: sm, maxCount: maxCount, offsetPlusOne: offset + 1}
	dev.prime()
	dev.SetDuty(-1) // off until the caller asks otherwise
	sm.SetEnabled(true)
	return dev, nil
}

// prime loads the countdown reload value into the ISR. The program
// never writes the ISR so this must happen before the state machine
// is enabled.
func (p *PIOPWM) prime() {
	p.sm.TxPut(p.maxCount)
	p.sm.Exec(pio.EncodePull(false, true))
	p.sm.Exec(pio.EncodeMov(pio.SrcDestISR, pio.SrcDestOSR))
}

// SetDuty requests a new duty threshold. value is clamped to
// [-1, MaxCount]; -1 means the output never goes high. Non-blocking:
// the state machine picks the value up at its next period boundary,
// and only the most recent value queued before that instant is
// observed.
func (p *PIOPWM) SetDuty(value int32) {
	p.mustValid()
	p.sm.TxPut(uint32(clampDuty(value, p.maxCount)))
}

// MaxCount returns the duty threshold corresponding to fully on.
func (p *PIOPWM) MaxCount() uint32 {
	return p.maxCount
}

// Pause pauses the PWM output if disabled is true. If false unpauses it.
func (p *PIOPWM) Pause(disabled bool) {
	p.mustValid()
	p.sm.SetEnabled(!disabled)
}

// Stop halts the state machine and resets it to its initial state with
// the output off. The ISR is re-primed since restarting clears it.
func (p *PIOPWM) Stop() {
	p.mustValid()
	// See StateMachine.Init for reference on this sequence of operations.
	p.sm.SetEnabled(false)
	p.sm.ClearFIFOs()
	p.sm.Restart()
	p.sm.ClkDivRestart()
	p.sm.Exec(pio.EncodeJmp(p.offsetPlusOne-1, pio.JmpAlways))
	p.prime()
	p.SetDuty(-1)
	p.sm.SetEnabled(true)
}

func (p *PIOPWM) mustValid() {
	if p.offsetPlusOne == 0 {
		panic("piopwm: PIOPWM not initialized")
	}
}
