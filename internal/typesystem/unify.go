package typesystem

import "fmt"

// UnifyError reports a failed unification; the checker wraps it into a
// diagnostics.TypeMismatch at the call site, which is why this carries the
// two types rather than a pre-formatted message.
type UnifyError struct {
	Left, Right Type
	Reason      string
}

func (e *UnifyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

func mismatch(a, b Type, reason string) error {
	return &UnifyError{Left: a, Right: b, Reason: reason}
}

// Unify finds a substitution that, applied to both sides, makes t1 and t2
// structurally identical, per spec §4.3's four unify rules:
//  1. same variable on both sides -> no-op
//  2. one side a bound variable -> unify its substitution with the other side
//  3. unbound variable vs concrete -> occurs-check, then bind
//  4. concrete vs concrete -> structural recursion
//
// Unify does not consult a running substitution map itself; callers thread
// Subst results through Compose (see internal/checker's solveAndSubstitute)
// across multiple calls.
func Unify(t1, t2 Type) (Subst, error) {
	return unify(t1, t2)
}

func unify(t1, t2 Type) (Subst, error) {
	v1, isVar1 := t1.(TVar)
	v2, isVar2 := t2.(TVar)

	switch {
	case isVar1 && isVar2 && v1.ID == v2.ID:
		// Rule 1: same variable on both sides.
		return Subst{}, nil
	case isVar1:
		return bind(v1, t2)
	case isVar2:
		return bind(v2, t1)
	}

	switch a := t1.(type) {
	case TUnit:
		if _, ok := t2.(TUnit); ok {
			return Subst{}, nil
		}
		return nil, mismatch(t1, t2, "")
	case TError:
		// Error is a placeholder that unifies with anything so a single
		// prior mistake doesn't cascade into a wall of follow-on
		// mismatches (spec §7: downstream checks still run).
		return Subst{}, nil
	case TBool:
		if _, ok := t2.(TBool); ok {
			return Subst{}, nil
		}
	case TChar:
		if _, ok := t2.(TChar); ok {
			return Subst{}, nil
		}
	case TString:
		if _, ok := t2.(TString); ok {
			return Subst{}, nil
		}
	case TNull:
		if _, ok := t2.(TNull); ok {
			return Subst{}, nil
		}
	case TBasic:
		if b, ok := t2.(TBasic); ok && b.Name == a.Name {
			return Subst{}, nil
		}
	case TInt:
		if b, ok := t2.(TInt); ok && b.Size == a.Size {
			return Subst{}, nil
		}
	case TPointer:
		b, ok := t2.(TPointer)
		if !ok {
			break
		}
		return unify(a.Elem, b.Elem)
	case TReference:
		b, ok := t2.(TReference)
		if !ok {
			break
		}
		return unify(a.Elem, b.Elem)
	case TArray:
		b, ok := t2.(TArray)
		if !ok || a.Len != b.Len {
			break
		}
		return unify(a.Elem, b.Elem)
	case TFunction:
		b, ok := t2.(TFunction)
		if !ok {
			break
		}
		return unifyFunctions(a.FunctionType, b.FunctionType)
	case TStruct:
		b, ok := t2.(TStruct)
		if !ok {
			break
		}
		return unifyStructs(a.StructType, b.StructType)
	}

	// Check TError on the right independently of t1's kind.
	if _, ok := t2.(TError); ok {
		return Subst{}, nil
	}

	return nil, mismatch(t1, t2, "")
}

func unifyFunctions(a, b FunctionType) (Subst, error) {
	if len(a.Params) != len(b.Params) {
		return nil, mismatch(TFunction{a}, TFunction{b}, "parameter count differs")
	}
	result := Subst{}
	for i := range a.Params {
		s, err := unify(a.Params[i].Apply(result), b.Params[i].Apply(result))
		if err != nil {
			return nil, err
		}
		result = Compose(result, s)
	}
	s, err := unify(a.Return.Apply(result), b.Return.Apply(result))
	if err != nil {
		return nil, err
	}
	return Compose(result, s), nil
}

func unifyStructs(a, b StructType) (Subst, error) {
	if len(a.Fields) != len(b.Fields) {
		return nil, mismatch(TStruct{a}, TStruct{b}, "field count differs")
	}
	result := Subst{}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name {
			return nil, mismatch(TStruct{a}, TStruct{b}, "field names differ")
		}
		s, err := unify(a.Fields[i].Type.Apply(result), b.Fields[i].Type.Apply(result))
		if err != nil {
			return nil, err
		}
		result = Compose(result, s)
	}
	return result, nil
}

// bind implements rule 3: occurs-check then bind an unbound variable to a
// concrete type.
func bind(v TVar, t Type) (Subst, error) {
	if tv, ok := t.(TVar); ok && tv.ID == v.ID {
		return Subst{}, nil
	}
	if occursIn(v, t) {
		return nil, mismatch(v, t, "occurs check failed (infinite type)")
	}
	return Subst{v.ID: t}, nil
}

func occursIn(v TVar, t Type) bool {
	switch tt := t.(type) {
	case TVar:
		return tt.ID == v.ID
	case TPointer:
		return occursIn(v, tt.Elem)
	case TReference:
		return occursIn(v, tt.Elem)
	case TArray:
		return occursIn(v, tt.Elem)
	case TFunction:
		for _, p := range tt.Params {
			if occursIn(v, p) {
				return true
			}
		}
		return occursIn(v, tt.Return)
	case TStruct:
		for _, f := range tt.Fields {
			if occursIn(v, f.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Compose merges two substitutions, applying s2 over s1's range so that
// chained bindings (t1 -> t2 -> concrete) resolve through in one map,
// consistent with repeatedly calling Apply in sequence.
func Compose(s1, s2 Subst) Subst {
	result := make(Subst, len(s1)+len(s2))
	for k, v := range s1 {
		result[k] = v.Apply(s2)
	}
	for k, v := range s2 {
		if _, exists := result[k]; !exists {
			result[k] = v
		}
	}
	return result
}

// Compare reports structural equality after flattening (flattening itself
// lives in internal/checker since it needs the Cache). Compare implements
// spec P8: any pointer type compares equal to Pointer(Null).
func Compare(a, b Type) bool {
	if ap, ok := a.(TPointer); ok {
		if _, ok := b.(TNull); ok {
			return true
		}
		if bp, ok := b.(TPointer); ok {
			if _, ok := bp.Elem.(TNull); ok {
				return true
			}
			return Compare(ap.Elem, bp.Elem)
		}
		return false
	}
	if bp, ok := b.(TPointer); ok {
		if _, ok := a.(TNull); ok {
			return true
		}
		if ap, ok := a.(TPointer); ok {
			if _, ok := ap.Elem.(TNull); ok {
				return true
			}
			return Compare(ap.Elem, bp.Elem)
		}
		return false
	}

	switch at := a.(type) {
	case TUnit:
		_, ok := b.(TUnit)
		return ok
	case TError:
		return true // Error compares equal to anything; see Unify's TError rule.
	case TBool:
		_, ok := b.(TBool)
		return ok
	case TChar:
		_, ok := b.(TChar)
		return ok
	case TString:
		_, ok := b.(TString)
		return ok
	case TNull:
		_, ok := b.(TNull)
		return ok
	case TBasic:
		bt, ok := b.(TBasic)
		return ok && bt.Name == at.Name
	case TInt:
		bt, ok := b.(TInt)
		return ok && bt.Size == at.Size
	case TReference:
		bt, ok := b.(TReference)
		return ok && Compare(at.Elem, bt.Elem)
	case TArray:
		bt, ok := b.(TArray)
		return ok && at.Len == bt.Len && Compare(at.Elem, bt.Elem)
	case TFunction:
		bt, ok := b.(TFunction)
		if !ok || len(at.Params) != len(bt.Params) || at.Variadic != bt.Variadic {
			return false
		}
		for i := range at.Params {
			if !Compare(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Compare(at.Return, bt.Return)
	case TStruct:
		bt, ok := b.(TStruct)
		if !ok || len(at.Fields) != len(bt.Fields) {
			return false
		}
		for i := range at.Fields {
			if at.Fields[i].Name != bt.Fields[i].Name || !Compare(at.Fields[i].Type, bt.Fields[i].Type) {
				return false
			}
		}
		return true
	case TVar:
		bt, ok := b.(TVar)
		return ok && bt.ID == at.ID
	default:
		return false
	}
}
