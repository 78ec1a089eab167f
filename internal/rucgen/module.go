package rucgen

import (
	"ruc/internal/rucopt"
	"ruc/internal/rucsem"
)

// EmitModule implements Module Emitter: prologue (target header, struct
// aliases, string pool, fixed runtime stubs), body (every top-level declaration), epilogue
// (Needs-gated extern declarations).
func (g *Gen) EmitModule(ws rucopt.Workspace) {
	g.emitPrologue(ws)
	g.emitBody()
	g.emitEpilogue()
}

func (g *Gen) emitPrologue(ws rucopt.Workspace) {
	switch ws.Target {
	case rucopt.Mipsel:
		g.W.Line(`target datalayout = "e-m:m-p:32:32-i8:8:32-i16:16:32-i64:64-n32-S64"`)
		g.W.Line(`target triple = "mipsel-unknown-linux-gnu"`)
	default:
		g.W.Line(`target datalayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"`)
		g.W.Line(`target triple = "x86_64-unknown-linux-gnu"`)
	}
	g.W.Line("")

	for i, t := range g.Unit.Structs {
		g.W.Write("%%struct_opt.%d = type %s\n", i, g.Types.StructFieldList(t.Fields))
	}
	if len(g.Unit.Structs) > 0 {
		g.W.Line("")
	}

	for i := 0; i < g.Unit.Strings.Amount(); i++ {
		s := g.Unit.Strings.Get(i)
		length := g.Unit.Strings.Length(i)
		g.W.Write("@.str%d = private unnamed_addr constant [%d x i8] c\"%s\\00\", align 1\n",
			i, length+1, escapeString(s))
	}
	if g.Unit.Strings.Amount() > 0 {
		g.W.Line("")
	}

	g.emitRuntimeStubs()
}

// escapeString rewrites an IR string-literal body: newlines become the \0A
// escape. Other non-printable bytes are left as-is since the front end only ever hands the
// generator already-validated source text.
func escapeString(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, '\\', '0', 'A')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// emitRuntimeStubs prints the fixed textual stubs for the library-style pretty-printers the
// front end has already expanded calls into (print, printid, getid) plus assert. Their bodies
// are boilerplate wrappers around the C library; they do not participate in the Needs-gated
// epilogue since every translation unit may reference them.
func (g *Gen) emitRuntimeStubs() {
	g.W.Line(`declare i32 @printf(i8*, ...)`)
	g.W.Line(`declare i32 @scanf(i8*, ...)`)
	g.W.Line(`declare void @exit(i32)`)
	g.W.Line("")
	g.W.Line(`@.fmt.int = private unnamed_addr constant [3 x i8] c"%d\00", align 1`)
	g.W.Line(`@.fmt.float = private unnamed_addr constant [3 x i8] c"%f\00", align 1`)
	g.W.Line("")
	g.W.Line(`define void @assert(i1 %cond) {`)
	g.W.Line(`  br i1 %cond, label %ok, label %fail`)
	g.W.Line(`fail:`)
	g.W.Line(`  call void @exit(i32 1)`)
	g.W.Line(`  unreachable`)
	g.W.Line(`ok:`)
	g.W.Line(`  ret void`)
	g.W.Line(`}`)
	g.W.Line("")
	g.W.Line(`define void @print(i32 %v) {`)
	g.W.Line(`  %fmt = getelementptr inbounds [3 x i8], [3 x i8]* @.fmt.int, i32 0, i32 0`)
	g.W.Line(`  call i32 (i8*, ...) @printf(i8* %fmt, i32 %v)`)
	g.W.Line(`  ret void`)
	g.W.Line(`}`)
	g.W.Line("")
	g.W.Line(`define void @printid(double %v) {`)
	g.W.Line(`  %fmt = getelementptr inbounds [3 x i8], [3 x i8]* @.fmt.float, i32 0, i32 0`)
	g.W.Line(`  call i32 (i8*, ...) @printf(i8* %fmt, double %v)`)
	g.W.Line(`  ret void`)
	g.W.Line(`}`)
	g.W.Line("")
	g.W.Line(`define i32 @getid() {`)
	g.W.Line(`  %slot = alloca i32, align 4`)
	g.W.Line(`  %fmt = getelementptr inbounds [3 x i8], [3 x i8]* @.fmt.int, i32 0, i32 0`)
	g.W.Line(`  call i32 (i8*, ...) @scanf(i8* %fmt, i32* %slot)`)
	g.W.Line(`  %r = load i32, i32* %slot`)
	g.W.Line(`  ret i32 %r`)
	g.W.Line(`}`)
	g.W.Line("")
}

func (g *Gen) emitBody() {
	for _, top := range g.Unit.Root.Children {
		switch top.Kind {
		case rucsem.FUNC_DEF:
			g.visitFunction(top)
			g.W.Line("")
		case rucsem.GLOBAL_DECL:
			g.visitGlobalDecl(top)
		}
	}
}

func (g *Gen) emitEpilogue() {
	if g.St.Needs.Stacksave {
		g.W.Line(`declare i8* @llvm.stacksave()`)
		g.W.Line(`declare void @llvm.stackrestore(i8*)`)
	}
	if g.St.Needs.Abs {
		g.W.Line(`declare i32 @abs(i32)`)
	}
	if g.St.Needs.Fabs {
		g.W.Line(`declare double @llvm.fabs.f64(double)`)
	}
	if g.St.Needs.IOFile {
		g.W.Line(`%struct._IO_marker = type opaque`)
		g.W.Line(`%struct._IO_FILE = type opaque`)
	}
}
