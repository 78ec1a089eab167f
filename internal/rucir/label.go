// Package rucir holds the generator's emission-time bookkeeping: the register/label
// allocator, the array registry and the answer record / emission state
// shared by every emitter in internal/rucgen.
package rucir

import "fmt"

// Counter is a monotonically increasing issuer of virtual register numbers or label numbers
// for one translation unit: a single counter issues virtual register numbers in emission
// order, and labels share an independent counter of their own. Plain increment, no channel or
// goroutine involved — the generator is single-threaded.
type Counter struct {
	next int
}

// NewCounter returns a Counter starting at start.
func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

// Next returns the next value and advances the counter.
func (c *Counter) Next() int {
	v := c.next
	c.next++
	return v
}

// Peek returns the value Next() would return without advancing.
func (c *Counter) Peek() int {
	return c.next
}

// Reg formats a fresh SSA register name "%.<n>".
func Reg(n int) string {
	return fmt.Sprintf("%%.%d", n)
}

// VarSlot formats a named local scalar slot "%var.<id>".
func VarSlot(id int) string {
	return fmt.Sprintf("%%var.%d", id)
}

// ArrSlot formats a named local static-array slot "%arr.<id>".
func ArrSlot(id int) string {
	return fmt.Sprintf("%%arr.%d", id)
}

// DynArrSlot formats a named local dynamic-array slot "%dynarr.<id>".
func DynArrSlot(id int) string {
	return fmt.Sprintf("%%dynarr.%d", id)
}

// DynSlot formats a stacksave/stackrestore key slot "%dyn.<n>" (n may be negative, e.g. -1
// for the first dynamic allocation in a function).
func DynSlot(n int) string {
	return fmt.Sprintf("%%dyn.%d", n)
}

// GlobalVar formats a global scalar "@var.<id>".
func GlobalVar(id int) string {
	return fmt.Sprintf("@var.%d", id)
}

// GlobalArr formats a global array "@arr.<id>".
func GlobalArr(id int) string {
	return fmt.Sprintf("@arr.%d", id)
}

// GlobalStr formats a string constant "@.str<n>".
func GlobalStr(n int) string {
	return fmt.Sprintf("@.str%d", n)
}

// StructType formats a struct type alias "%struct_opt.<id>".
func StructType(id int) string {
	return fmt.Sprintf("%%struct_opt.%d", id)
}

// Label formats a synthetic label "label<n>".
func Label(n int) string {
	return fmt.Sprintf("label%d", n)
}

// SourceLabel formats a source-level goto target label, using the negated source label id to
// guarantee disjointness from synthetic labels
func SourceLabel(sourceID int) string {
	return fmt.Sprintf("label%d", -sourceID)
}
