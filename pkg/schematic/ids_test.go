package schematic

import "testing"

func TestCounter(t *testing.T) {
	c := NewCounter(FirstID)
	if got := c.Next(); got != 1001 {
		t.Errorf("first id = %d, want 1001", got)
	}
	if got := c.Next(); got != 1002 {
		t.Errorf("second id = %d, want 1002", got)
	}

	c.Observe(2000)
	if got := c.Next(); got != 2001 {
		t.Errorf("after Observe(2000) = %d, want 2001", got)
	}
	c.Observe(5)
	if got := c.Next(); got != 2002 {
		t.Errorf("Observe of old id must not rewind, got %d", got)
	}
}

func TestCounterZeroValue(t *testing.T) {
	var c Counter
	if got := c.Next(); got != FirstID {
		t.Errorf("zero Counter first id = %d, want %d", got, FirstID)
	}
}
