package ir

// Parameter is the substituted value for one bound variable: a type, a
// lifetime, or a const, tagged with which one it is. It plays the role the
// original spec's ParameterKind<Ty,Lifetime,Const> sum plays — a Go
// interface stands in for the closed three-armed union.
type Parameter interface {
	Kind() Kind
	String() string
	Equal(Parameter) bool
}

// TyParameter wraps a Ty as a Parameter.
type TyParameter struct{ Ty Ty }

func (p TyParameter) Kind() Kind      { return KindType }
func (p TyParameter) String() string  { return p.Ty.String() }
func (p TyParameter) Equal(o Parameter) bool {
	other, ok := o.(TyParameter)
	return ok && p.Ty.Equal(other.Ty)
}

// LifetimeParameter wraps a Lifetime as a Parameter.
type LifetimeParameter struct{ Lifetime Lifetime }

func (p LifetimeParameter) Kind() Kind     { return KindLifetime }
func (p LifetimeParameter) String() string { return p.Lifetime.String() }
func (p LifetimeParameter) Equal(o Parameter) bool {
	other, ok := o.(LifetimeParameter)
	return ok && p.Lifetime.Equal(other.Lifetime)
}

// ConstParameter wraps a Const as a Parameter.
type ConstParameter struct{ Const Const }

func (p ConstParameter) Kind() Kind     { return KindConst }
func (p ConstParameter) String() string { return p.Const.String() }
func (p ConstParameter) Equal(o Parameter) bool {
	other, ok := o.(ConstParameter)
	return ok && p.Const.Equal(other.Const)
}

// AsTy panics unless p carries a Ty; used at sites where the caller already
// knows the kind from context (e.g. a clause's declared binder kinds) and a
// mismatch is an internal logic bug, not a recoverable failure.
func AsTy(p Parameter) Ty {
	tp, ok := p.(TyParameter)
	if !ok {
		panic("ir: parameter kind mismatch: expected type, got " + p.Kind().String())
	}
	return tp.Ty
}

// AsLifetime panics unless p carries a Lifetime. See AsTy.
func AsLifetime(p Parameter) Lifetime {
	lp, ok := p.(LifetimeParameter)
	if !ok {
		panic("ir: parameter kind mismatch: expected lifetime, got " + p.Kind().String())
	}
	return lp.Lifetime
}

// AsConst panics unless p carries a Const. See AsTy.
func AsConst(p Parameter) Const {
	cp, ok := p.(ConstParameter)
	if !ok {
		panic("ir: parameter kind mismatch: expected const, got " + p.Kind().String())
	}
	return cp.Const
}

func parametersEqual(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
