package checker

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

func isIntType(t typesystem.Type) bool {
	_, ok := t.(typesystem.TInt)
	return ok
}

func isBoolType(t typesystem.Type) bool {
	_, ok := t.(typesystem.TBool)
	return ok
}

// InferType is the total, pure(-ish, modulo recorded diagnostics and
// constraints) function spec §4.3 describes: every node kind produces a
// Type, and Check-pass validation is folded directly into the same
// traversal rather than run as a separate pass, exactly as
// original_source/type_system.rs's TypeContext methods do (infer_*
// functions call report_constraints and push diagnostics inline).
func (tc *TypeContext) InferType(n ast.Node) typesystem.Type {
	switch v := n.(type) {
	case *ast.BooleanLiteral:
		return typesystem.TBool{}
	case *ast.CharLiteral:
		return typesystem.TChar{}
	case *ast.IntegerLiteral:
		return typesystem.TInt{Size: v.Size}
	case *ast.StringLiteral:
		return typesystem.TString{}
	case *ast.NullPtrLiteral:
		return typesystem.TPointer{Elem: v.PointeeType}

	case *ast.Pattern:
		return tc.inferPattern(v)
	case *ast.Reference:
		return tc.InferType(v.Target)
	case *ast.ParenthesesExpr:
		return tc.InferType(v.Inner)
	case *ast.BinaryExpr:
		return tc.inferBinary(v)
	case *ast.UnaryExpr:
		return tc.inferUnary(v)
	case *ast.CallExpr:
		return tc.inferCall(v)
	case *ast.IndexingExpr:
		return tc.inferIndexing(v)
	case *ast.StaticArrayValue:
		return tc.inferArray(v)
	case *ast.MemberAccess:
		return tc.inferMember(v)
	case *ast.StructValue:
		return tc.inferStructValue(v)
	case *ast.IfExpr:
		return tc.inferIf(v)
	case *ast.SizeofIntrinsic:
		return typesystem.TInt{Size: typesystem.U64}
	case *ast.IntrinsicCall:
		for _, a := range v.Arguments {
			tc.InferType(a)
		}
		return typesystem.TUnit{}
	case *ast.UnsafeExpr:
		return tc.inferUnsafe(v)
	case *ast.Closure:
		return tc.inferClosure(v)

	case *ast.Block:
		return tc.inferBlock(v)
	case *ast.VariableDefStmt:
		return tc.inferVariableDef(v)
	case *ast.InlineExprStmt:
		return tc.InferType(v.Expr)
	case *ast.ReturnStmt:
		return tc.inferReturn(v)
	case *ast.BreakStmt:
		return tc.inferBreak(v)
	case *ast.ContinueStmt:
		return tc.inferContinue(v)
	case *ast.LoopStmt:
		return tc.inferLoop(v)
	case *ast.AssignStmt:
		return tc.inferAssign(v)

	case *ast.Function:
		return tc.inferFunction(v)
	case *ast.ExternalFunction:
		return tc.inferExternalFunction(v)
	case *ast.ExternalStatic:
		return v.Type
	case *ast.StructImpl:
		return tc.inferStructImpl(v)
	case *ast.StructType, *ast.Trait, *ast.Enum, *ast.TypeAlias, *ast.Using:
		return typesystem.TUnit{}

	default:
		return typesystem.TError{}
	}
}

func (tc *TypeContext) inferPattern(n *ast.Pattern) typesystem.Type {
	if !n.TargetID.IsValid() {
		return typesystem.TError{}
	}
	if n.SymbolKind == ids.Type {
		stub := &typesystem.TStub{Ref: typesystem.StubRef{Target: n.TargetID, Kind: n.SymbolKind}}
		return tc.Flatten(stub, n.GetSpan())
	}
	node, err := tc.cache.Get(n.TargetID)
	if err != nil {
		return typesystem.TError{}
	}
	switch d := node.(type) {
	case *ast.VariableDefStmt:
		return d.TypeAnnotation
	case *ast.Parameter:
		return d.Type
	case *ast.Function:
		return tc.functionSignature(d.Prototype)
	case *ast.ExternalFunction:
		return tc.functionSignature(d.Prototype)
	case *ast.ExternalStatic:
		return d.Type
	default:
		return typesystem.TError{}
	}
}

func (tc *TypeContext) functionSignature(p *ast.Prototype) typesystem.Type {
	params := make([]typesystem.Type, 0, len(p.Parameters))
	for _, param := range p.Parameters {
		params = append(params, param.Type)
	}
	return typesystem.TFunction{FunctionType: typesystem.FunctionType{
		Params: params, Return: p.ReturnType, Variadic: p.Variadic, Extern: p.Extern,
	}}
}

func (tc *TypeContext) inferBinary(n *ast.BinaryExpr) typesystem.Type {
	lt := tc.InferType(n.Left)
	rt := tc.InferType(n.Right)
	flatL := tc.Flatten(lt, n.GetSpan())
	flatR := tc.Flatten(rt, n.GetSpan())
	switch n.Op {
	case ast.And, ast.Or:
		if !isBoolType(flatL) || !isBoolType(flatR) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "operator `%s` requires Bool operands", n.Op)
		}
		return typesystem.TBool{}
	case ast.Eq, ast.Ne:
		if !typesystem.Compare(flatL, flatR) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "cannot compare %s with %s", flatL, flatR)
		}
		return typesystem.TBool{}
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if !isIntType(flatL) || !isIntType(flatR) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "operator `%s` requires integer operands", n.Op)
		}
		return typesystem.TBool{}
	default: // Add, Sub, Mul, Div, Mod
		if !isIntType(flatL) || !isIntType(flatR) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "arithmetic operator `%s` requires integer operands", n.Op)
		}
		return lt
	}
}

func (tc *TypeContext) inferUnary(n *ast.UnaryExpr) typesystem.Type {
	switch n.Op {
	case ast.AddressOf:
		return typesystem.TPointer{Elem: tc.InferType(n.Operand)}
	case ast.Negate:
		t := tc.InferType(n.Operand)
		if !isIntType(tc.Flatten(t, n.GetSpan())) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "unary `-` requires an integer operand")
		}
		return t
	case ast.Not:
		t := tc.InferType(n.Operand)
		if !isBoolType(tc.Flatten(t, n.GetSpan())) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "`!` requires a Bool operand")
		}
		return t
	case ast.Deref:
		if !tc.inUnsafe {
			tc.Diagnostics.Errorf(diagnostics.DerefOutsideUnsafe, n.GetSpan(), "dereference requires an unsafe block")
		}
		t := tc.Flatten(tc.InferType(n.Operand), n.GetSpan())
		ptr, ok := t.(typesystem.TPointer)
		if !ok {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "cannot dereference non-pointer type %s", t)
			return typesystem.TError{}
		}
		return ptr.Elem
	case ast.Cast:
		tc.InferType(n.Operand)
		return n.CastType
	default:
		return typesystem.TError{}
	}
}

func (tc *TypeContext) inferCall(n *ast.CallExpr) typesystem.Type {
	// A MemberAccess callee desugars to an instance-argument call only at
	// lowering time (spec §4.4); the checker just needs its function type.
	calleeType := tc.Flatten(tc.InferType(n.Callee), n.GetSpan())
	fn, ok := calleeType.(typesystem.TFunction)
	if !ok {
		tc.Diagnostics.Errorf(diagnostics.NotCallable, n.GetSpan(), "cannot call a value of type %s", calleeType)
		for _, a := range n.Arguments {
			tc.InferType(a)
		}
		return typesystem.TError{}
	}
	if fn.Extern && !tc.inUnsafe {
		tc.Diagnostics.Errorf(diagnostics.ExternCallOutsideUnsafe, n.GetSpan(), "calling an extern function requires an unsafe block")
	}
	paramCount := len(fn.Params)
	argCount := len(n.Arguments)
	if argCount != paramCount && !(fn.Variadic && argCount >= paramCount) {
		tc.Diagnostics.Errorf(diagnostics.ArgCountMismatch, n.GetSpan(), "expected %d argument(s), got %d", paramCount, argCount)
	}
	for i, a := range n.Arguments {
		at := tc.InferType(a)
		if i < paramCount && !typesystem.Compare(tc.Flatten(at, a.GetSpan()), tc.Flatten(fn.Params[i], a.GetSpan())) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, a.GetSpan(), "argument %d: expected %s, got %s", i+1, fn.Params[i], at)
		}
	}
	return fn.Return
}

func (tc *TypeContext) inferIndexing(n *ast.IndexingExpr) typesystem.Type {
	idxType := tc.Flatten(tc.InferType(n.Index), n.GetSpan())
	if !isIntType(idxType) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "index must be an integer, got %s", idxType)
	}
	targetType := tc.Flatten(tc.InferType(n.Target), n.GetSpan())
	switch tt := targetType.(type) {
	case typesystem.TArray:
		return tt.Elem
	case typesystem.TPointer:
		return tt.Elem
	default:
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "cannot index into type %s", targetType)
		return typesystem.TError{}
	}
}

func (tc *TypeContext) inferArray(n *ast.StaticArrayValue) typesystem.Type {
	var elem typesystem.Type
	if n.ElementType != nil {
		elem = n.ElementType
	}
	for i, e := range n.Elements {
		et := tc.InferType(e)
		if elem == nil {
			elem = et
			continue
		}
		if !typesystem.Compare(tc.Flatten(elem, n.GetSpan()), tc.Flatten(et, n.GetSpan())) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, e.GetSpan(), "array element %d: expected %s, got %s", i, elem, et)
		}
	}
	if elem == nil {
		elem = typesystem.TError{}
	}
	return typesystem.TArray{Elem: elem, Len: len(n.Elements)}
}

func (tc *TypeContext) inferMember(n *ast.MemberAccess) typesystem.Type {
	baseType := tc.Flatten(tc.InferType(n.Base), n.GetSpan())
	st, ok := baseType.(typesystem.TStruct)
	if !ok {
		if ptr, isPtr := baseType.(typesystem.TPointer); isPtr {
			if s2, ok2 := tc.Flatten(ptr.Elem, n.GetSpan()).(typesystem.TStruct); ok2 {
				st, ok = s2, true
			}
		}
	}
	if !ok {
		return typesystem.TError{}
	}
	if f, found := st.FieldByName(n.FieldName); found {
		return f.Type
	}
	for _, m := range tc.cache.ImplsOf(st.ID) {
		if m.MethodName != n.FieldName {
			continue
		}
		node, err := tc.cache.Get(m.MethodID)
		if err != nil {
			continue
		}
		if fn, ok := node.(*ast.Function); ok {
			return tc.functionSignature(fn.Prototype)
		}
	}
	return typesystem.TError{}
}

func (tc *TypeContext) inferStructValue(n *ast.StructValue) typesystem.Type {
	st := tc.InferType(n.StructName)
	decl, ok := st.(typesystem.TStruct)
	if !ok {
		for _, f := range n.Fields {
			tc.InferType(f.Value)
		}
		return typesystem.TError{}
	}
	if len(n.Fields) != len(decl.Fields) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "struct `%s` expects %d field(s), got %d", decl.Name, len(decl.Fields), len(n.Fields))
	}
	for i, f := range n.Fields {
		vt := tc.InferType(f.Value)
		if i >= len(decl.Fields) {
			continue
		}
		declared := decl.Fields[i]
		if f.Name != declared.Name {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, f.Value.GetSpan(), "field %d: expected `%s`, got `%s`", i, declared.Name, f.Name)
		}
		if !typesystem.Compare(tc.Flatten(vt, f.Value.GetSpan()), declared.Type) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, f.Value.GetSpan(), "field `%s`: expected %s, got %s", declared.Name, declared.Type, vt)
		}
	}
	return decl
}

func (tc *TypeContext) inferIf(n *ast.IfExpr) typesystem.Type {
	condType := tc.Flatten(tc.InferType(n.Condition), n.GetSpan())
	if !isBoolType(condType) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.Condition.GetSpan(), "if condition must be Bool, got %s", condType)
	}
	thenType := tc.InferType(n.ThenBlock)
	if n.ElseBlock == nil {
		return typesystem.TUnit{}
	}
	elseType := tc.InferType(n.ElseBlock)
	if !typesystem.Compare(tc.Flatten(thenType, n.GetSpan()), tc.Flatten(elseType, n.GetSpan())) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "if branches disagree: %s vs %s", thenType, elseType)
		return typesystem.TError{}
	}
	return thenType
}

func (tc *TypeContext) inferUnsafe(n *ast.UnsafeExpr) typesystem.Type {
	prev := tc.inUnsafe
	tc.inUnsafe = true
	t := tc.InferType(n.Body)
	tc.inUnsafe = prev
	return t
}

func (tc *TypeContext) inferClosure(n *ast.Closure) typesystem.Type {
	sig := tc.functionSignature(n.Prototype)
	prevRet := tc.currentFnRet
	tc.currentFnRet = n.Prototype.ReturnType
	tc.InferType(n.Body)
	tc.currentFnRet = prevRet
	return sig
}

func (tc *TypeContext) inferBlock(n *ast.Block) typesystem.Type {
	var result typesystem.Type = typesystem.TUnit{}
	for i, stmt := range n.Statements {
		t := tc.InferType(stmt)
		if n.YieldsLastExpr && i == len(n.Statements)-1 {
			result = t
		}
	}
	return result
}

func (tc *TypeContext) inferVariableDef(n *ast.VariableDefStmt) typesystem.Type {
	valueType := tc.InferType(n.Value)
	if _, isVar := n.TypeAnnotation.(typesystem.TVar); isVar {
		nn := n
		tc.addConstraint(n.TypeAnnotation, valueType, n.GetSpan(), func(resolved typesystem.Type) {
			nn.TypeAnnotation = resolved
		})
	} else if !typesystem.Compare(tc.Flatten(n.TypeAnnotation, n.GetSpan()), tc.Flatten(valueType, n.GetSpan())) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(),
			"`%s`: declared type %s does not match initializer type %s", n.Name, n.TypeAnnotation, valueType)
	}
	return typesystem.TUnit{}
}

func (tc *TypeContext) inferReturn(n *ast.ReturnStmt) typesystem.Type {
	if n.Value == nil {
		if tc.currentFnRet != nil && !isUnitType(tc.Flatten(tc.currentFnRet, n.GetSpan())) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "missing return value for a non-Unit function")
		}
		return typesystem.TUnit{}
	}
	vt := tc.InferType(n.Value)
	if tc.currentFnRet != nil && !typesystem.Compare(tc.Flatten(vt, n.GetSpan()), tc.Flatten(tc.currentFnRet, n.GetSpan())) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "return type mismatch: expected %s, got %s", tc.currentFnRet, vt)
	}
	return typesystem.TUnit{}
}

func isUnitType(t typesystem.Type) bool {
	_, ok := t.(typesystem.TUnit)
	return ok
}

func (tc *TypeContext) inferBreak(n *ast.BreakStmt) typesystem.Type {
	if !tc.inLoop {
		tc.Diagnostics.Errorf(diagnostics.LoopControlOutsideLoop, n.GetSpan(), "break statement may only occur inside a loop")
	}
	return typesystem.TUnit{}
}

func (tc *TypeContext) inferContinue(n *ast.ContinueStmt) typesystem.Type {
	if !tc.inLoop {
		tc.Diagnostics.Errorf(diagnostics.LoopControlOutsideLoop, n.GetSpan(), "continue statement may only occur inside a loop")
	}
	return typesystem.TUnit{}
}

func (tc *TypeContext) inferLoop(n *ast.LoopStmt) typesystem.Type {
	if n.Condition != nil {
		condType := tc.Flatten(tc.InferType(n.Condition), n.GetSpan())
		if !isBoolType(condType) {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.Condition.GetSpan(), "loop condition must be Bool, got %s", condType)
		}
	}
	prevLoop := tc.inLoop
	tc.inLoop = true
	tc.InferType(n.Body)
	tc.inLoop = prevLoop
	return typesystem.TUnit{}
}

func (tc *TypeContext) inferAssign(n *ast.AssignStmt) typesystem.Type {
	switch a := n.Assignee.(type) {
	case *ast.Pattern:
		if a.TargetID.IsValid() {
			if node, err := tc.cache.Get(a.TargetID); err == nil {
				if def, ok := node.(*ast.VariableDefStmt); ok && !def.Mutable {
					tc.Diagnostics.Errorf(diagnostics.ImmutableAssignee, n.GetSpan(), "cannot assign to immutable binding `%s`", def.Name)
				}
			}
		}
	case *ast.UnaryExpr:
		if a.Op != ast.Deref {
			tc.Diagnostics.Errorf(diagnostics.InvalidAssignee, n.GetSpan(), "invalid assignment target")
		}
	case *ast.IndexingExpr, *ast.MemberAccess:
		// Always valid assignment targets (spec §4.3 Assign rule).
	default:
		tc.Diagnostics.Errorf(diagnostics.InvalidAssignee, n.GetSpan(), "invalid assignment target")
	}
	assigneeType := tc.InferType(n.Assignee)
	valueType := tc.InferType(n.Value)
	if !typesystem.Compare(tc.Flatten(assigneeType, n.GetSpan()), tc.Flatten(valueType, n.GetSpan())) {
		tc.Diagnostics.Errorf(diagnostics.TypeMismatch, n.GetSpan(), "cannot assign %s to %s", valueType, assigneeType)
	}
	return typesystem.TUnit{}
}

func (tc *TypeContext) inferFunction(n *ast.Function) typesystem.Type {
	sig := tc.functionSignature(n.Prototype)
	if n.Name == "main" {
		tc.checkMainSignature(n)
	}
	if n.Prototype.Variadic && !n.Prototype.Extern {
		tc.Diagnostics.Errorf(diagnostics.VariadicOnNonExtern, n.GetSpan(), "only an extern function may be variadic")
	}
	prevRet := tc.currentFnRet
	tc.currentFnRet = n.Prototype.ReturnType
	tc.InferType(n.Body)
	tc.currentFnRet = prevRet
	return sig
}

// checkMainSignature enforces spec §4.3's distinguished entry-point rule:
// `main` must be `(Int32, Pointer(String)) -> Int32`, non-variadic and
// non-extern.
func (tc *TypeContext) checkMainSignature(n *ast.Function) {
	p := n.Prototype
	ok := !p.Variadic && !p.Extern && len(p.Parameters) == 2
	if ok {
		arg0 := tc.Flatten(p.Parameters[0].Type, n.GetSpan())
		arg1 := tc.Flatten(p.Parameters[1].Type, n.GetSpan())
		i32, isI32 := arg0.(typesystem.TInt)
		ok = isI32 && i32.Size == typesystem.I32

		ptr, isPtr := arg1.(typesystem.TPointer)
		ok = ok && isPtr
		if ok {
			_, isStr := tc.Flatten(ptr.Elem, n.GetSpan()).(typesystem.TString)
			ok = isStr
		}

		ret, isI32b := tc.Flatten(p.ReturnType, n.GetSpan()).(typesystem.TInt)
		ok = ok && isI32b && ret.Size == typesystem.I32
	}
	if !ok {
		tc.Diagnostics.Errorf(diagnostics.MainSignature, n.GetSpan(),
			"`main` must have signature (Int32, Pointer(String)) -> Int32")
	}
}

func (tc *TypeContext) inferExternalFunction(n *ast.ExternalFunction) typesystem.Type {
	if n.Prototype.Variadic && !n.Prototype.Extern {
		tc.Diagnostics.Errorf(diagnostics.VariadicOnNonExtern, n.GetSpan(), "only an extern function may be variadic")
	}
	return tc.functionSignature(n.Prototype)
}

func (tc *TypeContext) inferStructImpl(n *ast.StructImpl) typesystem.Type {
	prevImpl := tc.inImpl
	tc.inImpl = true
	for _, m := range n.Methods {
		tc.InferType(m)
	}
	tc.inImpl = prevImpl

	if n.TraitPattern != nil && n.TraitPattern.TargetID.IsValid() {
		if node, err := tc.cache.Get(n.TraitPattern.TargetID); err == nil {
			if trait, ok := node.(*ast.Trait); ok {
				tc.checkTraitConformance(n, trait)
			}
		}
	}
	return typesystem.TUnit{}
}

// checkTraitConformance matches an impl's methods against the trait's
// declared prototypes positionally (the AST's Trait carries unnamed
// Prototypes — see DESIGN.md) rather than by name.
func (tc *TypeContext) checkTraitConformance(n *ast.StructImpl, trait *ast.Trait) {
	if len(trait.Methods) != len(n.Methods) {
		tc.Diagnostics.Errorf(diagnostics.TraitMethodMissing, n.GetSpan(),
			"impl provides %d method(s), trait requires %d", len(n.Methods), len(trait.Methods))
		return
	}
	for i, want := range trait.Methods {
		got := n.Methods[i].Prototype
		if !tc.comparePrototypes(want, got) {
			tc.Diagnostics.Errorf(diagnostics.TraitPrototypeMismatch, n.Methods[i].GetSpan(),
				"method `%s` does not match the trait's declared signature", n.Methods[i].Name)
		}
	}
}

func (tc *TypeContext) comparePrototypes(a, b *ast.Prototype) bool {
	if len(a.Parameters) != len(b.Parameters) || a.Variadic != b.Variadic {
		return false
	}
	for i := range a.Parameters {
		if !typesystem.Compare(tc.Flatten(a.Parameters[i].Type, a.GetSpan()), tc.Flatten(b.Parameters[i].Type, b.GetSpan())) {
			return false
		}
	}
	return typesystem.Compare(tc.Flatten(a.ReturnType, a.GetSpan()), tc.Flatten(b.ReturnType, b.GetSpan()))
}
