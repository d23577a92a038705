package piopwm

import "testing"

func TestClampDuty(t *testing.T) {
	const maxCount = 1<<16 - 1
	cases := []struct {
		in   int32
		want int32
	}{
		{-1 << 30, -1},
		{-2, -1},
		{-1, -1},
		{0, 0},
		{1, 1},
		{65535, 65535},
		{65536, 65535},
		{1 << 30, 65535},
	}
	for _, c := range cases {
		got := clampDuty(c.in, maxCount)
		if got != c.want {
			t.Errorf("clampDuty(%d) = %d, want %d", c.in, got, c.want)
		}
		if again := clampDuty(got, maxCount); again != got {
			t.Errorf("clampDuty not idempotent: clampDuty(%d) = %d", got, again)
		}
		if got < -1 || got > maxCount {
			t.Errorf("clampDuty(%d) = %d outside [-1, %d]", c.in, got, int32(maxCount))
		}
	}
}

func TestProgramInvariants(t *testing.T) {
	if len(pwmInstructions) != pwmWrap+1 {
		t.Fatalf("wrap instruction %d not last instruction of %d word program", pwmWrap, len(pwmInstructions))
	}
	for i, instr := range pwmInstructions {
		// Jump targets are program-start relative; they must land
		// inside the program for AddProgram's relocation patching
		// to keep them valid at any load offset.
		if instr&0xe000 == 0x0000 {
			addr := int(instr & 0x1f)
			if addr >= len(pwmInstructions) {
				t.Errorf("instr %d: jmp target %d outside program", i, addr)
			}
		}
	}
	// Only the fetch and the tie-break nop drive the pin.
	for i, instr := range pwmInstructions {
		hasSide := instr&(1<<12) != 0
		if want := i == 0 || i == 4; hasSide != want {
			t.Errorf("instr %d: sideset enable = %v, want %v", i, hasSide, want)
		}
	}
	if pwmInstructions[0]&(1<<11) != 0 {
		t.Error("fetch instruction must drive the pin low")
	}
	if pwmInstructions[4]&(1<<11) == 0 {
		t.Error("tie-break nop must drive the pin high")
	}
}
