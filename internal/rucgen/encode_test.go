package rucgen

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"ruc/internal/rucio"
	"ruc/internal/rucopt"
	"ruc/internal/rucsem"
	"ruc/internal/rucverify"
)

// declarator builds a DECL/parameter declarator node for identifier id, optionally with a
// scalar initializer, matching the convention documented on rucsem.Node.Compound.
func declarator(id *rucsem.Ident, init *rucsem.Node) *rucsem.Node {
	if init == nil {
		return &rucsem.Node{Ident: id, Typ: id.Typ}
	}
	return &rucsem.Node{Ident: id, Typ: id.Typ, Compound: true, Children: []*rucsem.Node{init}}
}

func intLit(v int64) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.LITERAL, Lit: rucsem.LitInt, IntVal: v}
}

func floatLit(v float64) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.LITERAL, Lit: rucsem.LitFloat, FloatVal: v}
}

func identNode(id *rucsem.Ident) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.IDENTIFIER, Ident: id}
}

func binNode(op string, lhs, rhs *rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.BINARY, Op: op, Children: []*rucsem.Node{lhs, rhs}}
}

func retNode(expr *rucsem.Node) *rucsem.Node {
	if expr == nil {
		return &rucsem.Node{Kind: rucsem.RETURN}
	}
	return &rucsem.Node{Kind: rucsem.RETURN, Children: []*rucsem.Node{expr}}
}

func declStmt(declarators ...*rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.DECL, Children: declarators}
}

func compound(stmts ...*rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.COMPOUND, Children: stmts}
}

// arrayDeclarator builds a DECL declarator for an array identifier: one size-expression child
// per dimension (nil entries mean "infer from initializer"), outermost-first, optionally
// followed by a trailing initializer per the convention documented on rucsem.Node.Compound.
func arrayDeclarator(id *rucsem.Ident, dims []*rucsem.Node, init *rucsem.Node) *rucsem.Node {
	if init == nil {
		return &rucsem.Node{Ident: id, Typ: id.Typ, Children: dims}
	}
	children := append(append([]*rucsem.Node{}, dims...), init)
	return &rucsem.Node{Ident: id, Typ: id.Typ, Compound: true, Children: children}
}

func subscriptNode(base, idx *rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.SUBSCRIPT, Children: []*rucsem.Node{base, idx}}
}

func unaryNode(op string, operand *rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.UNARY, Op: op, Children: []*rucsem.Node{operand}}
}

func ternaryNode(cond, thenExpr, elseExpr *rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.TERNARY, Children: []*rucsem.Node{cond, thenExpr, elseExpr}}
}

func exprStmt(expr *rucsem.Node) *rucsem.Node {
	return &rucsem.Node{Kind: rucsem.EXPR, Children: []*rucsem.Node{expr}}
}

func emit(t *testing.T, unit *rucsem.Unit) string {
	t.Helper()
	var buf bytes.Buffer
	w := rucio.NewWriter(&buf)
	n := Encode(rucopt.Workspace{Target: rucopt.X86_64}, unit, w)
	if n != 0 {
		t.Fatalf("Encode reported %d error(s)", n)
	}
	return buf.String()
}

// TestEncodeAddFunction exercises a plain, non-main function with two integer parameters and a
// single arithmetic return.
func TestEncodeAddFunction(t *testing.T) {
	intTy := rucsem.Type{Kind: rucsem.Int}
	a := &rucsem.Ident{ID: 0, Name: "a", Typ: intTy, Local: true}
	b := &rucsem.Ident{ID: 1, Name: "b", Typ: intTy, Local: true}
	add := &rucsem.Ident{ID: 2, Name: "add", Typ: rucsem.Type{
		Kind: rucsem.Function, Ret: &intTy, Params: []rucsem.Type{intTy, intTy},
	}}

	body := compound(retNode(binNode("+", identNode(a), identNode(b))))
	fn := &rucsem.Node{
		Kind:     rucsem.FUNC_DEF,
		Ident:    add,
		Typ:      add.Typ,
		Children: []*rucsem.Node{declarator(a, nil), declarator(b, nil), body},
	}

	unit := &rucsem.Unit{
		Idents:  rucsem.NewIdentPool(0, 0),
		Strings: rucsem.NewStringPool(),
		Root:    &rucsem.Node{Kind: rucsem.UNIT, Children: []*rucsem.Node{fn}},
	}
	unit.Idents.Declare(a)
	unit.Idents.Declare(b)
	unit.Idents.Declare(add)

	out := emit(t, unit)

	for _, want := range []string{
		"define i32 @add(i32, i32) {",
		"%var.0 = alloca i32, align 4",
		"%var.1 = alloca i32, align 4",
		"store i32 %0, i32* %var.0",
		"store i32 %1, i32* %var.1",
		"add nsw i32",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; full output:\n%s", want, out)
		}
	}

	if rep := rucverify.Check(out); !rep.OK {
		t.Errorf("structural verification failed: %v\noutput:\n%s", rep.Issues, out)
	}
}

// TestEncodeMainExplicitReturnComputesValue pins down the reconciliation documented on
// visitReturn: an explicit "return <expr>;" inside main always reports its actual computed
// value (here the zext'd result of a float comparison) rather than the fixed "ret i32 0" that
// only governs a bare "return;" or a synthesized fall-off-the-end exit.
func TestEncodeMainExplicitReturnComputesValue(t *testing.T) {
	intTy := rucsem.Type{Kind: rucsem.Int}
	floatTy := rucsem.Type{Kind: rucsem.Float}
	x := &rucsem.Ident{ID: 0, Name: "x", Typ: floatTy, Local: true}
	i := &rucsem.Ident{ID: 1, Name: "i", Typ: intTy, Local: true}
	main := &rucsem.Ident{ID: 2, Name: "main", Typ: rucsem.Type{Kind: rucsem.Function, Ret: &intTy}}

	cond := binNode(">", binNode("+", identNode(x), identNode(i)), intLit(0))
	body := compound(
		declStmt(declarator(x, floatLit(1.0))),
		declStmt(declarator(i, intLit(2))),
		retNode(cond),
	)
	fn := &rucsem.Node{
		Kind:     rucsem.FUNC_DEF,
		Ident:    main,
		Typ:      main.Typ,
		Children: []*rucsem.Node{body},
	}

	unit := &rucsem.Unit{
		Idents:  rucsem.NewIdentPool(0, 0),
		Strings: rucsem.NewStringPool(),
		Root:    &rucsem.Node{Kind: rucsem.UNIT, Children: []*rucsem.Node{fn}},
		Main:    main,
	}
	unit.Idents.Declare(x)
	unit.Idents.Declare(i)
	unit.Idents.Declare(main)

	out := emit(t, unit)

	for _, want := range []string{
		"sitofp i32",
		"fadd double",
		"fcmp ogt double",
		"zext i1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; full output:\n%s", want, out)
		}
	}

	if regexp.MustCompile(`ret i32 0\b`).MatchString(out) {
		t.Errorf("main's explicit return was collapsed to the fixed \"ret i32 0\"; full output:\n%s", out)
	}
	if !regexp.MustCompile(`ret i32 %\.\d+`).MatchString(out) {
		t.Errorf("main's explicit return did not report its computed value; full output:\n%s", out)
	}

	if rep := rucverify.Check(out); !rep.OK {
		t.Errorf("structural verification failed: %v\noutput:\n%s", rep.Issues, out)
	}
}

// TestEncodeMainBareReturnFallsBackToZero confirms the one case that still special-cases main:
// a bare "return;" with no expression.
func TestEncodeMainBareReturnFallsBackToZero(t *testing.T) {
	intTy := rucsem.Type{Kind: rucsem.Int}
	main := &rucsem.Ident{ID: 0, Name: "main", Typ: rucsem.Type{Kind: rucsem.Function, Ret: &intTy}}
	body := compound(retNode(nil))
	fn := &rucsem.Node{Kind: rucsem.FUNC_DEF, Ident: main, Typ: main.Typ, Children: []*rucsem.Node{body}}

	unit := &rucsem.Unit{
		Idents:  rucsem.NewIdentPool(0, 0),
		Strings: rucsem.NewStringPool(),
		Root:    &rucsem.Node{Kind: rucsem.UNIT, Children: []*rucsem.Node{fn}},
		Main:    main,
	}
	unit.Idents.Declare(main)

	out := emit(t, unit)
	if !strings.Contains(out, "ret i32 0") {
		t.Errorf("bare return in main did not fall back to ret i32 0; full output:\n%s", out)
	}
}

// TestEncodeTernaryLowersToSingleCompareAndPhi exercises "return x<0?-x:x;": one icmp deciding
// between the two arms, each arm reached by its own block, merged by exactly one phi.
func TestEncodeTernaryLowersToSingleCompareAndPhi(t *testing.T) {
	intTy := rucsem.Type{Kind: rucsem.Int}
	x := &rucsem.Ident{ID: 0, Name: "x", Typ: intTy, Local: true}
	f := &rucsem.Ident{ID: 1, Name: "f", Typ: rucsem.Type{
		Kind: rucsem.Function, Ret: &intTy, Params: []rucsem.Type{intTy},
	}}

	cond := binNode("<", identNode(x), intLit(0))
	ternary := ternaryNode(cond, unaryNode("-", identNode(x)), identNode(x))
	body := compound(retNode(ternary))
	fn := &rucsem.Node{
		Kind:     rucsem.FUNC_DEF,
		Ident:    f,
		Typ:      f.Typ,
		Children: []*rucsem.Node{declarator(x, nil), body},
	}

	unit := &rucsem.Unit{
		Idents:  rucsem.NewIdentPool(0, 0),
		Strings: rucsem.NewStringPool(),
		Root:    &rucsem.Node{Kind: rucsem.UNIT, Children: []*rucsem.Node{fn}},
	}
	unit.Idents.Declare(x)
	unit.Idents.Declare(f)

	out := emit(t, unit)

	if n := strings.Count(out, "icmp slt"); n != 1 {
		t.Errorf("want exactly one icmp slt, got %d; full output:\n%s", n, out)
	}
	if n := regexp.MustCompile(`\bphi i32 \[.*\], \[.*\]`).FindAllString(out, -1); len(n) != 1 {
		t.Errorf("want exactly one phi i32 merging two incoming edges, got %v; full output:\n%s", n, out)
	}

	if rep := rucverify.Check(out); !rep.OK {
		t.Errorf("structural verification failed: %v\noutput:\n%s", rep.Issues, out)
	}
}

// TestEncodeStaticArrayInitAndLoad exercises "int a[3]={1,2,3}; return a[1];": a 3-element
// alloca, three per-slot stores during initialization, and a final indexed load.
func TestEncodeStaticArrayInitAndLoad(t *testing.T) {
	intTy := rucsem.Type{Kind: rucsem.Int}
	arrTy := rucsem.ArrayOf(intTy)
	a := &rucsem.Ident{ID: 0, Name: "a", Typ: arrTy, Local: true}
	main := &rucsem.Ident{ID: 1, Name: "main", Typ: rucsem.Type{Kind: rucsem.Function, Ret: &intTy}}

	init := &rucsem.Node{Kind: rucsem.INITIALIZER, Children: []*rucsem.Node{intLit(1), intLit(2), intLit(3)}}
	decl := arrayDeclarator(a, []*rucsem.Node{intLit(3)}, init)
	body := compound(
		declStmt(decl),
		retNode(subscriptNode(identNode(a), intLit(1))),
	)
	fn := &rucsem.Node{Kind: rucsem.FUNC_DEF, Ident: main, Typ: main.Typ, Children: []*rucsem.Node{body}}

	unit := &rucsem.Unit{
		Idents:  rucsem.NewIdentPool(0, 0),
		Strings: rucsem.NewStringPool(),
		Root:    &rucsem.Node{Kind: rucsem.UNIT, Children: []*rucsem.Node{fn}},
		Main:    main,
	}
	unit.Idents.Declare(a)
	unit.Idents.Declare(main)

	out := emit(t, unit)

	for _, want := range []string{
		"%arr.0 = alloca [3 x i32], align 4",
		"getelementptr inbounds [3 x i32], [3 x i32]* %arr.0, i32 0, i32 0",
		"getelementptr inbounds [3 x i32], [3 x i32]* %arr.0, i32 0, i32 1",
		"getelementptr inbounds [3 x i32], [3 x i32]* %arr.0, i32 0, i32 2",
		"store i32 1,",
		"store i32 2,",
		"store i32 3,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; full output:\n%s", want, out)
		}
	}

	if !regexp.MustCompile(`getelementptr inbounds \[3 x i32\], \[3 x i32\]\* %arr\.0, i32 0, i32 1\n  %\.\d+ = load i32`).MatchString(out) {
		t.Errorf("final indexed load of a[1] not found; full output:\n%s", out)
	}

	if rep := rucverify.Check(out); !rep.OK {
		t.Errorf("structural verification failed: %v\noutput:\n%s", rep.Issues, out)
	}
}

// TestEncodeDynamicArrayPairsStacksaveWithSynthesizedStackrestore exercises
// "void g(int n){int a[n]; a[0]=7;}": the function has no explicit return, so the stackrestore
// matching the function-level stacksave must come from the synthesized fall-off-the-end exit
// in visitFunction, not from visitReturn.
func TestEncodeDynamicArrayPairsStacksaveWithSynthesizedStackrestore(t *testing.T) {
	intTy := rucsem.Type{Kind: rucsem.Int}
	voidTy := rucsem.Type{Kind: rucsem.Void}
	n := &rucsem.Ident{ID: 0, Name: "n", Typ: intTy, Local: true}
	a := &rucsem.Ident{ID: 1, Name: "a", Typ: rucsem.ArrayOf(intTy), Local: true}
	g := &rucsem.Ident{ID: 2, Name: "g", Typ: rucsem.Type{
		Kind: rucsem.Function, Ret: &voidTy, Params: []rucsem.Type{intTy},
	}}

	decl := arrayDeclarator(a, []*rucsem.Node{identNode(n)}, nil)
	assign := &rucsem.Node{
		Kind: rucsem.BINARY, Op: "=",
		Children: []*rucsem.Node{subscriptNode(identNode(a), intLit(0)), intLit(7)},
	}
	body := compound(declStmt(decl), exprStmt(assign))
	fn := &rucsem.Node{
		Kind:     rucsem.FUNC_DEF,
		Ident:    g,
		Typ:      g.Typ,
		Children: []*rucsem.Node{declarator(n, nil), body},
	}

	unit := &rucsem.Unit{
		Idents:  rucsem.NewIdentPool(0, 0),
		Strings: rucsem.NewStringPool(),
		Root:    &rucsem.Node{Kind: rucsem.UNIT, Children: []*rucsem.Node{fn}},
	}
	unit.Idents.Declare(n)
	unit.Idents.Declare(a)
	unit.Idents.Declare(g)

	out := emit(t, unit)

	for _, want := range []string{
		"%dyn.-1 = alloca i8*, align 8",
		"call i8* @llvm.stacksave()",
		"store i8* %.",
		"%dynarr.1 = alloca i32, i32 %.",
		"getelementptr inbounds i32, i32* %dynarr.1, i32 0",
		"store i32 7,",
		"call void @llvm.stackrestore(i8* %.",
		"ret void",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; full output:\n%s", want, out)
		}
	}

	if strings.Count(out, "call void @llvm.stackrestore") != 1 {
		t.Errorf("want exactly one stackrestore, got %d; full output:\n%s",
			strings.Count(out, "call void @llvm.stackrestore"), out)
	}

	restoreIdx := strings.Index(out, "call void @llvm.stackrestore")
	retIdx := strings.LastIndex(out, "ret void")
	if restoreIdx < 0 || retIdx < 0 || restoreIdx > retIdx {
		t.Errorf("stackrestore did not precede the synthesized ret void; full output:\n%s", out)
	}

	if rep := rucverify.Check(out); !rep.OK {
		t.Errorf("structural verification failed: %v\noutput:\n%s", rep.Issues, out)
	}
}
