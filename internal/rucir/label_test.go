package rucir

import "testing"

func TestCounterIssuesMonotonicValues(t *testing.T) {
	c := NewCounter(1)
	if got := c.Peek(); got != 1 {
		t.Fatalf("Peek() = %d, want 1", got)
	}
	var got []int
	for i := 0; i < 3; i++ {
		got = append(got, c.Next())
	}
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next() sequence = %v, want %v", got, want)
			break
		}
	}
	if got := c.Peek(); got != 4 {
		t.Errorf("Peek() after three Next() = %d, want 4", got)
	}
}

func TestSlotFormatters(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{Reg(3), "%.3"},
		{VarSlot(7), "%var.7"},
		{ArrSlot(2), "%arr.2"},
		{DynArrSlot(5), "%dynarr.5"},
		{DynSlot(-1), "%dyn.-1"},
		{GlobalVar(1), "@var.1"},
		{GlobalArr(4), "@arr.4"},
		{GlobalStr(0), "@.str0"},
		{StructType(6), "%struct_opt.6"},
		{Label(9), "label9"},
		{SourceLabel(2), "label-2"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}
