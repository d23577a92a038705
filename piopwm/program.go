package piopwm

// The PWM program drives one pin via 1-bit optional sideset. The ISR is
// primed with the countdown reload value before the state machine starts
// and is never written again. X holds the duty threshold, Y the live
// countdown. One outer iteration is one PWM period:
//
//	    pull noblock    side 0   ; fetch new duty if present, pin LOW
//	    mov  x, osr              ; OSR -> X
//	    mov  y, isr              ; reload countdown
//	countloop:
//	    jmp  x != y, skip
//	    nop             side 1   ; X == Y: pin HIGH for the rest of the period
//	skip:
//	    jmp  y--, countloop
//
// pull noblock on an empty FIFO copies X to OSR, so a period with no
// pending update keeps the previous duty. A duty of all ones (-1) never
// matches Y inside the countdown range and leaves the pin off.
const (
	pwmWrapTarget = 0
	pwmWrap       = 5

	// 1 sideset data bit plus the enable bit for optional sideset.
	pwmSidesetBits = 2

	pwmOrigin int8 = -1 // relocatable
)

var pwmInstructions = []uint16{
	0x9080, //  0: pull   noblock         side 0
	0xa027, //  1: mov    x, osr
	0xa046, //  2: mov    y, isr
	//     countloop:
	0x00a5, //  3: jmp    x != y, 5
	0xba42, //  4: nop                    side 1
	//     skip:
	0x0083, //  5: jmp    y--, 3
}

// clampDuty bounds a requested duty threshold to [-1, maxCount].
// -1 is the "never on" sentinel: it wraps to all ones on the state
// machine and never matches the countdown.
func clampDuty(value int32, maxCount uint32) int32 {
	if value < -1 {
		value = -1
	}
	if value >= 0 && uint32(value) > maxCount {
		value = int32(maxCount)
	}
	return value
}
