package lowerer

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/ir"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// lowerValue is the expression half of spec §4.4's lowering dispatch: a
// total function from an ast.Node in value position to the ir.Value it
// evaluates to, mirroring internal/checker's InferType in shape (switch
// over the same node kinds) but emitting builder calls instead of
// recording a type.
func (l *Lowerer) lowerValue(n ast.Node) ir.Value {
	switch v := n.(type) {
	case *ast.BooleanLiteral:
		return ir.BoolConst{Value: v.Value}
	case *ast.CharLiteral:
		return ir.IntConst{Bits: 32, Value: int64(v.Value)}
	case *ast.IntegerLiteral:
		return ir.IntConst{Bits: v.Size.Bits(), Value: v.Value}
	case *ast.StringLiteral:
		return l.b.BuildGlobalString(v.Value)
	case *ast.NullPtrLiteral:
		return ir.NullConst{Elem: l.lowerType(v.PointeeType)}

	case *ast.Pattern:
		return l.lowerPatternValue(v)
	case *ast.Reference:
		return l.lowerValue(v.Target)
	case *ast.ParenthesesExpr:
		return l.lowerValue(v.Inner)
	case *ast.BinaryExpr:
		return l.lowerBinary(v)
	case *ast.UnaryExpr:
		return l.lowerUnary(v)
	case *ast.CallExpr:
		return l.lowerCall(v)
	case *ast.IndexingExpr:
		return l.lowerIndexing(v)
	case *ast.StaticArrayValue:
		return l.lowerArray(v)
	case *ast.MemberAccess:
		return l.lowerMember(v)
	case *ast.StructValue:
		return l.lowerStructValue(v)
	case *ast.IfExpr:
		return l.lowerIf(v)
	case *ast.SizeofIntrinsic:
		return ir.IntConst{Bits: 64, Value: int64(l.sizeOf(l.lowerType(v.OperandType)))}
	case *ast.IntrinsicCall:
		return l.lowerIntrinsicCall(v)
	case *ast.UnsafeExpr:
		return l.lowerBlockExpr(v.Body)
	case *ast.Closure:
		return l.lowerClosure(v)
	case *ast.Block:
		return l.lowerBlockExpr(v)

	default:
		l.ice("unexpected expression kind %T reached lowering", n)
		return ir.BoolConst{}
	}
}

// lowerLValue computes the address a Pattern/Deref/IndexingExpr/
// MemberAccess assignment target or &-operand refers to, without loading
// through it — the pointer counterpart to lowerValue (spec's "access
// rules": reads load through the address, writes store through it,
// `&expr` just takes the address directly).
func (l *Lowerer) lowerLValue(n ast.Expression) ir.Value {
	switch v := n.(type) {
	case *ast.Pattern:
		if ptr, ok := l.values[v.TargetID]; ok {
			return ptr
		}
		if g, ok := l.irGlobals[v.TargetID]; ok {
			return ir.GlobalRef{G: g}
		}
		l.ice("pattern target %d has no addressable storage", v.TargetID)
	case *ast.UnaryExpr:
		if v.Op == ast.Deref {
			return l.lowerValue(v.Operand)
		}
	case *ast.IndexingExpr:
		return l.lowerIndexAddress(v)
	case *ast.MemberAccess:
		return l.lowerMemberAddress(v)
	case *ast.ParenthesesExpr:
		return l.lowerLValue(v.Inner)
	}
	l.ice("expression kind %T is not a valid lvalue", n)
	return nil
}

// lowerPatternValue loads a local/parameter/global through its stored
// address, or returns a bare function reference for a direct function
// name used as a value (the callee position, or a first-class function
// value).
func (l *Lowerer) lowerPatternValue(n *ast.Pattern) ir.Value {
	if !n.TargetID.IsValid() {
		l.ice("unresolved pattern %q reached lowering", n.BaseName)
	}
	if fn, ok := l.irFunctions[n.TargetID]; ok {
		return ir.FunctionRef{F: fn}
	}
	node, err := l.cache.Get(n.TargetID)
	if err != nil {
		l.ice("binding %d missing from cache at lowering", n.TargetID)
	}
	switch node.(type) {
	case *ast.VariableDefStmt, *ast.Parameter, *ast.ExternalStatic:
		ptr := l.lowerLValue(n)
		return l.b.BuildLoad(l.lowerType(l.valueType(n)), ptr)
	default:
		l.ice("pattern %q resolves to non-value binding %T", n.BaseName, node)
		return nil
	}
}

func (l *Lowerer) lowerBinary(n *ast.BinaryExpr) ir.Value {
	lt := l.valueType(n.Left)
	switch n.Op {
	case ast.And:
		return l.b.BuildAnd(l.lowerValue(n.Left), l.lowerValue(n.Right))
	case ast.Or:
		return l.b.BuildOr(l.lowerValue(n.Left), l.lowerValue(n.Right))
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return l.b.BuildIntCmp(intPredicateFor(n.Op, lt), l.lowerValue(n.Left), l.lowerValue(n.Right))
	default:
		return l.b.BuildIntArith(intArithOpFor(n.Op, lt), l.lowerValue(n.Left), l.lowerValue(n.Right))
	}
}

func intPredicateFor(op ast.BinaryOp, t typesystem.Type) ir.IntPredicate {
	unsigned := false
	if it, ok := t.(typesystem.TInt); ok {
		unsigned = it.Size.Unsigned()
	}
	switch op {
	case ast.Eq:
		return ir.ICmpEq
	case ast.Ne:
		return ir.ICmpNe
	case ast.Lt:
		if unsigned {
			return ir.ICmpUlt
		}
		return ir.ICmpSlt
	case ast.Le:
		if unsigned {
			return ir.ICmpUle
		}
		return ir.ICmpSle
	case ast.Gt:
		if unsigned {
			return ir.ICmpUgt
		}
		return ir.ICmpSgt
	default: // Ge
		if unsigned {
			return ir.ICmpUge
		}
		return ir.ICmpSge
	}
}

func intArithOpFor(op ast.BinaryOp, t typesystem.Type) ir.IntArithOp {
	unsigned := false
	if it, ok := t.(typesystem.TInt); ok {
		unsigned = it.Size.Unsigned()
	}
	switch op {
	case ast.Add:
		return ir.IntAdd
	case ast.Sub:
		return ir.IntSub
	case ast.Mul:
		return ir.IntMul
	case ast.Div:
		if unsigned {
			return ir.IntUDiv
		}
		return ir.IntSDiv
	default: // Mod
		if unsigned {
			return ir.IntURem
		}
		return ir.IntSRem
	}
}

func (l *Lowerer) lowerUnary(n *ast.UnaryExpr) ir.Value {
	switch n.Op {
	case ast.AddressOf:
		return l.lowerLValue(n.Operand)
	case ast.Negate:
		t := l.lowerType(l.valueType(n.Operand))
		zero := ir.IntConst{Bits: bitsOf(t), Value: 0}
		return l.b.BuildIntArith(ir.IntSub, zero, l.lowerValue(n.Operand))
	case ast.Not:
		return l.b.BuildNot(l.lowerValue(n.Operand))
	case ast.Deref:
		ptr := l.lowerValue(n.Operand)
		elemType := l.lowerType(l.valueType(n))
		return l.b.BuildLoad(elemType, ptr)
	case ast.Cast:
		from := l.lowerType(l.valueType(n.Operand))
		to := l.lowerType(n.CastType)
		return l.b.BuildCast(castKindFor(from, to), l.lowerValue(n.Operand), to)
	default:
		l.ice("unexpected unary operator %v reached lowering", n.Op)
		return nil
	}
}

func bitsOf(t ir.Type) int {
	if it, ok := t.(ir.IntType); ok {
		return it.Bits
	}
	return 64
}

func castKindFor(from, to ir.Type) ir.CastKind {
	fromInt, fromIsInt := from.(ir.IntType)
	toInt, toIsInt := to.(ir.IntType)
	switch {
	case fromIsInt && toIsInt && fromInt.Bits > toInt.Bits:
		return ir.CastIntTrunc
	case fromIsInt && toIsInt && fromInt.Bits < toInt.Bits:
		return ir.CastIntSExt
	case fromIsInt && toIsInt:
		return ir.CastBitcast
	default:
		_, fromPtr := from.(ir.PointerType)
		_, toPtr := to.(ir.PointerType)
		switch {
		case fromPtr && toIsInt:
			return ir.CastPtrToInt
		case fromIsInt && toPtr:
			return ir.CastIntToPtr
		default:
			return ir.CastBitcast
		}
	}
}

func (l *Lowerer) lowerIf(n *ast.IfExpr) ir.Value {
	fn := l.currentIRFunction()
	resultType := l.lowerType(l.valueType(n))
	_, isVoid := resultType.(ir.VoidType)

	var slot ir.Value
	if !isVoid && n.ElseBlock != nil {
		slot = l.b.BuildAlloca(resultType)
	}

	thenBlock := l.b.AppendBlock(fn, "if.then")
	mergeBlock := l.b.AppendBlock(fn, "if.merge")
	elseBlock := mergeBlock
	if n.ElseBlock != nil {
		elseBlock = l.b.AppendBlock(fn, "if.else")
	}

	cond := l.lowerValue(n.Condition)
	l.b.BuildCondBr(cond, thenBlock, elseBlock)

	l.b.PositionAt(thenBlock)
	l.state = stateInBlock
	thenVal := l.lowerBlockExpr(n.ThenBlock)
	if l.state != stateTerminated {
		if slot != nil {
			l.b.BuildStore(thenVal, slot)
		}
		l.b.BuildBr(mergeBlock)
	}

	if n.ElseBlock != nil {
		l.b.PositionAt(elseBlock)
		l.state = stateInBlock
		elseVal := l.lowerBlockExpr(n.ElseBlock)
		if l.state != stateTerminated {
			if slot != nil {
				l.b.BuildStore(elseVal, slot)
			}
			l.b.BuildBr(mergeBlock)
		}
	}

	l.b.PositionAt(mergeBlock)
	l.state = stateInBlock
	if slot != nil {
		return l.b.BuildLoad(resultType, slot)
	}
	return ir.BoolConst{Value: false} // Unit-typed if-as-statement: value is unused by callers.
}

func (l *Lowerer) lowerCall(n *ast.CallExpr) ir.Value {
	if member, ok := n.Callee.(*ast.MemberAccess); ok {
		if callee, instance, isMethod := l.resolveMethodCallee(member); isMethod {
			args := make([]ir.Value, 0, len(n.Arguments)+1)
			args = append(args, instance)
			for _, a := range n.Arguments {
				args = append(args, l.lowerValue(a))
			}
			retType := l.lowerType(l.valueType(n))
			return l.b.BuildCall(callee, args, retType)
		}
	}
	fn := l.lowerValue(n.Callee)
	args := make([]ir.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = l.lowerValue(a)
	}
	retType := l.lowerType(l.valueType(n))
	return l.b.BuildCall(fn, args, retType)
}

// resolveMethodCallee desugars a MemberAccess call target into a direct
// function reference plus the struct's address as the implicit first
// argument (spec §4.4: "a MemberAccess callee is desugared into an
// instance-argument call only at lowering time"), returning ok=false when
// the member names a plain field holding a function value instead (in
// which case the caller falls back to ordinary indirect-call lowering).
func (l *Lowerer) resolveMethodCallee(n *ast.MemberAccess) (callee ir.Value, instance ir.Value, ok bool) {
	baseType := l.valueType(n.Base)
	st, isStruct := baseType.(typesystem.TStruct)
	basePtr := false
	if ptr, isPtr := baseType.(typesystem.TPointer); isPtr {
		if s2, ok2 := ptr.Elem.(typesystem.TStruct); ok2 {
			st, isStruct, basePtr = s2, true, true
		}
	}
	if !isStruct {
		return nil, nil, false
	}
	if _, isField := st.FieldByName(n.FieldName); isField {
		return nil, nil, false
	}
	for _, m := range l.cache.ImplsOf(st.ID) {
		if m.MethodName != n.FieldName {
			continue
		}
		fn, registered := l.irFunctions[m.MethodID]
		if !registered {
			l.ice("method %s.%s was not predeclared", st.Name, n.FieldName)
		}
		if basePtr {
			instance = l.lowerValue(n.Base)
		} else {
			instance = l.lowerLValue(n.Base)
		}
		return ir.FunctionRef{F: fn}, instance, true
	}
	return nil, nil, false
}

func (l *Lowerer) lowerIndexAddress(n *ast.IndexingExpr) ir.Value {
	targetType := l.valueType(n.Target)
	idx := l.lowerValue(n.Index)
	if arr, ok := targetType.(typesystem.TArray); ok {
		l.buildBoundsCheck(idx, arr.Len)
		base := l.lowerLValue(n.Target)
		return l.b.BuildGEP(l.lowerType(arr.Elem), base, []ir.Value{ir.IntConst{Bits: 64, Value: 0}, idx})
	}
	if ptr, ok := targetType.(typesystem.TPointer); ok {
		base := l.lowerValue(n.Target)
		return l.b.BuildGEP(l.lowerType(ptr.Elem), base, []ir.Value{idx})
	}
	l.ice("indexing target has non-indexable type %s", targetType)
	return nil
}

func (l *Lowerer) lowerIndexing(n *ast.IndexingExpr) ir.Value {
	addr := l.lowerIndexAddress(n)
	return l.b.BuildLoad(l.lowerType(l.valueType(n)), addr)
}

func (l *Lowerer) lowerArray(n *ast.StaticArrayValue) ir.Value {
	var elemType ir.Type
	if len(n.Elements) > 0 {
		elemType = l.lowerType(l.valueType(n.Elements[0]))
	} else {
		elemType = l.lowerType(n.ElementType)
	}
	arrType := ir.ArrayType{Elem: elemType, Len: len(n.Elements)}
	slot := l.b.BuildAlloca(arrType)
	for i, e := range n.Elements {
		addr := l.b.BuildGEP(elemType, slot, []ir.Value{ir.IntConst{Bits: 64, Value: 0}, ir.IntConst{Bits: 64, Value: int64(i)}})
		l.b.BuildStore(l.lowerValue(e), addr)
	}
	return l.b.BuildLoad(arrType, slot)
}

func (l *Lowerer) lowerMemberAddress(n *ast.MemberAccess) ir.Value {
	baseType := l.valueType(n.Base)
	st, isStruct := baseType.(typesystem.TStruct)
	var basePtr ir.Value
	if isStruct {
		basePtr = l.lowerLValue(n.Base)
	} else if ptr, ok := baseType.(typesystem.TPointer); ok {
		if s2, ok2 := ptr.Elem.(typesystem.TStruct); ok2 {
			st, isStruct = s2, true
			basePtr = l.lowerValue(n.Base)
		}
	}
	if !isStruct {
		l.ice("member access base has non-struct type %s", baseType)
	}
	for i, f := range st.Fields {
		if f.Name == n.FieldName {
			return l.b.BuildStructGEP(*l.structTypeFor(st.ID), basePtr, i)
		}
	}
	l.ice("struct %s has no field %q", st.Name, n.FieldName)
	return nil
}

func (l *Lowerer) lowerMember(n *ast.MemberAccess) ir.Value {
	addr := l.lowerMemberAddress(n)
	return l.b.BuildLoad(l.lowerType(l.valueType(n)), addr)
}

func (l *Lowerer) lowerStructValue(n *ast.StructValue) ir.Value {
	st, ok := l.valueType(n).(typesystem.TStruct)
	if !ok {
		l.ice("struct literal has non-struct checked type")
	}
	irSt := l.structTypeFor(st.ID)
	slot := l.b.BuildAlloca(*irSt)
	for i, f := range n.Fields {
		addr := l.b.BuildStructGEP(*irSt, slot, i)
		l.b.BuildStore(l.lowerValue(f.Value), addr)
	}
	return l.b.BuildLoad(*irSt, slot)
}

func (l *Lowerer) lowerIntrinsicCall(n *ast.IntrinsicCall) ir.Value {
	args := make([]ir.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = l.lowerValue(a)
	}
	switch n.Name {
	case "print":
		return l.b.BuildCall(ir.FunctionRef{F: l.printIntrinsic()}, args, ir.VoidType{})
	case "panic":
		l.b.BuildCall(ir.FunctionRef{F: l.panicIntrinsic()}, args, ir.VoidType{})
		l.b.BuildUnreachable()
		l.state = stateTerminated
		return ir.BoolConst{Value: false}
	default:
		l.ice("unknown compiler intrinsic %q reached lowering", n.Name)
		return nil
	}
}

// sizeOf reports a naive storage size in bytes with no alignment padding
// — acceptable for this exercise's sizeof support (spec leaves the exact
// byte-layout algorithm unspecified; see DESIGN.md).
func (l *Lowerer) sizeOf(t ir.Type) int {
	switch v := t.(type) {
	case ir.IntType:
		return (v.Bits + 7) / 8
	case ir.FloatType:
		return (v.Bits + 7) / 8
	case ir.PointerType:
		return 8
	case ir.ArrayType:
		return l.sizeOf(v.Elem) * v.Len
	case ir.StructType:
		total := 0
		for _, f := range v.Fields {
			total += l.sizeOf(f)
		}
		return total
	default:
		return 0
	}
}
