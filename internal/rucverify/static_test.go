package rucverify

import "testing"

const wellFormed = `define i32 @add(i32, i32) {
  %var.0 = alloca i32, align 4
  store i32 %0, i32* %var.0
  %var.1 = alloca i32, align 4
  store i32 %1, i32* %var.1
  %.2 = load i32, i32* %var.0
  %.3 = load i32, i32* %var.1
  %.4 = add nsw i32 %.2, %.3
  ret i32 %.4
}
`

func TestCheckAcceptsWellFormedFunction(t *testing.T) {
	if rep := Check(wellFormed); !rep.OK {
		t.Fatalf("Check(wellFormed).OK = false, issues: %v", rep.Issues)
	}
}

func TestCheckCatchesNonMonotoneRegister(t *testing.T) {
	bad := `define i32 @f() {
  %.2 = add nsw i32 1, 1
  %.1 = add nsw i32 1, 1
  ret i32 %.1
}
`
	rep := Check(bad)
	if rep.OK {
		t.Fatal("Check did not flag a register redefined out of order")
	}
}

func TestCheckCatchesDuplicateDefinition(t *testing.T) {
	bad := `define i32 @f() {
  %.1 = add nsw i32 1, 1
  %.1 = add nsw i32 2, 2
  ret i32 %.1
}
`
	rep := Check(bad)
	if rep.OK {
		t.Fatal("Check did not flag a register defined twice")
	}
}

func TestCheckCatchesMissingTerminator(t *testing.T) {
	bad := `define i32 @f() {
  %.1 = add nsw i32 1, 1
}
`
	rep := Check(bad)
	if rep.OK {
		t.Fatal("Check did not flag a block falling off the end without a terminator")
	}
}

func TestCheckCatchesFallthroughIntoLabel(t *testing.T) {
	bad := `define i32 @f() {
  %.1 = add nsw i32 1, 1
label1:
  ret i32 %.1
}
`
	rep := Check(bad)
	if rep.OK {
		t.Fatal("Check did not flag a block falling through into a label without a terminator")
	}
}

func TestCheckAcceptsMultiBlockFunction(t *testing.T) {
	good := `define i32 @f(i32) {
  %var.0 = alloca i32, align 4
  store i32 %0, i32* %var.0
  %.1 = load i32, i32* %var.0
  %.2 = icmp sgt i32 %.1, 0
  br i1 %.2, label %label1, label %label2
label1:
  br label %label3
label2:
  br label %label3
label3:
  ret i32 0
}
`
	if rep := Check(good); !rep.OK {
		t.Fatalf("Check(good multi-block).OK = false, issues: %v", rep.Issues)
	}
}
