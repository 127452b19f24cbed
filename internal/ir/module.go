package ir

// Module is the top-level artifact a Pipeline run produces (spec §6:
// "Produced: an IR module"). It owns every Function and Global created
// against it through a Builder.
type Module struct {
	Name      string
	Functions []*Function
	Globals   []*Global

	stringCounter int
}

// Global is a module-scope storage location, as created by
// Builder.AddGlobal.
type Global struct {
	Name        string
	Type        Type
	AddrSpace   int
	Initializer Value
}

// Function is a declared or defined function in a Module. Extern
// prototypes (spec: unsafe-gated calls) have Linkage == External and no
// Blocks; defined functions get at least one Block appended via
// Builder.AppendBlock.
type Function struct {
	Name     string
	Sig      FunctionType
	Linkage  Linkage
	Params   []*Param
	Blocks   []*Block
	valueSeq int
}

// Param is a formal parameter, usable directly as a Value inside the
// function's blocks.
type Param struct {
	name  string
	typ   Type
	index int
}

func (p *Param) Type() Type    { return p.typ }
func (p *Param) String() string { return p.name }
func (*Param) irValue()        {}

// Block is a basic block: a straight-line sequence of non-terminating
// instructions followed by exactly one terminator (spec §4.4's
// function-body emission state machine enforces this one-terminator
// invariant; Block itself just records whichever terminator landed
// first — see Builder's no-op-after-terminator behavior).
type Block struct {
	Label      string
	Instrs     []*Instruction
	Terminator *Instruction
	fn         *Function
}

// Terminated reports whether this block already has a terminator, i.e.
// whether it is safe to keep emitting non-terminating instructions into
// it (spec P6: "every reachable block has exactly one terminator").
func (b *Block) Terminated() bool { return b.Terminator != nil }

// Instruction is both a single IR operation and, for non-void ops, the
// Value its result can be wired into later instructions as (LLVM's
// instructions-are-values design, referenced informally by spec §6's
// build_* vocabulary).
type Instruction struct {
	Op         string
	Operands   []Value
	ResultType Type
	id         int
}

func (i *Instruction) Type() Type    { return i.ResultType }
func (i *Instruction) String() string {
	if i.id == 0 {
		return "%" + i.Op
	}
	return i.Op
}
func (*Instruction) irValue() {}
