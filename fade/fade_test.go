package fade

import "testing"

type recorder struct {
	values []int32
}

func (r *recorder) SetDuty(value int32) {
	r.values = append(r.values, value)
}

func TestCycleSequence(t *testing.T) {
	rec := &recorder{}
	New(rec).Cycle()

	// 256 values up, 257 down (the down ramp starts at 256²,
	// which the controller is expected to clamp).
	if len(rec.values) != 513 {
		t.Fatalf("cycle queued %d values, want 513", len(rec.values))
	}
	if rec.values[0] != 0 || rec.values[len(rec.values)-1] != 0 {
		t.Errorf("cycle endpoints = %d, %d, want 0, 0", rec.values[0], rec.values[len(rec.values)-1])
	}
	if rec.values[255] != 255*255 {
		t.Errorf("top of up ramp = %d, want %d", rec.values[255], 255*255)
	}
	if rec.values[256] != 256*256 {
		t.Errorf("top of down ramp = %d, want %d", rec.values[256], 256*256)
	}
	for i, v := range rec.values {
		if v < 0 {
			t.Errorf("value %d at index %d: curve must be non-negative", v, i)
		}
	}
	for i := 1; i < 256; i++ {
		if rec.values[i] <= rec.values[i-1] {
			t.Errorf("up ramp not increasing at %d: %d <= %d", i, rec.values[i], rec.values[i-1])
		}
	}
	for i := 257; i < len(rec.values); i++ {
		if rec.values[i] >= rec.values[i-1] {
			t.Errorf("down ramp not decreasing at %d: %d >= %d", i, rec.values[i], rec.values[i-1])
		}
	}
}
