package presburger

// Normalize rewrites f to an equivalent formula using only LessEqual, Not,
// Or, and Exists (plus term nodes), then pushes existentials inward and
// drops quantifiers over variables that do not occur free in their bodies.
// The rewrite is applied to a fixpoint: each pass can expose further
// reductions (e.g. a double negation uncovered by an Iff expansion).
func Normalize(f *Formula) *Formula {
	for {
		rewritten, changed := rewriteOnce(f)
		if !changed {
			return rewritten
		}
		f = rewritten
	}
}

func rewriteOnce(f *Formula) (*Formula, bool) {
	if f == nil {
		return nil, false
	}
	switch f.Kind {
	case FLessEqual:
		return f, false

	case FEq:
		return And(LessEqual(f.Left, f.Right), LessEqual(f.Right, f.Left)), true

	case FLess:
		return And(LessEqual(f.Left, f.Right), Not(LessEqual(f.Right, f.Left))), true

	case FGreater:
		return Less(f.Right, f.Left), true

	case FGreaterEqual:
		return LessEqual(f.Right, f.Left), true

	case FImplies:
		return Or(Not(f.L), f.R), true

	case FIff:
		return And(Implies(f.L, f.R), Implies(f.R, f.L)), true

	case FAnd:
		return Not(Or(Not(f.L), Not(f.R))), true

	case FForAll:
		return Not(Exists(f.BoundVar, Not(f.Sub))), true

	case FNot:
		if f.Sub != nil && f.Sub.Kind == FNot {
			// double negation
			return f.Sub.Sub, true
		}
		inner, changed := rewriteOnce(f.Sub)
		if changed {
			return Not(inner), true
		}
		return f, false

	case FOr:
		l, lchanged := rewriteOnce(f.L)
		r, rchanged := rewriteOnce(f.R)
		if lchanged || rchanged {
			return Or(l, r), true
		}
		return f, false

	case FExists:
		if !freeIn(f.BoundVar, f.Sub) {
			return f.Sub, true
		}
		if f.Sub != nil && f.Sub.Kind == FOr {
			// push existential through disjunction
			return Or(Exists(f.BoundVar, f.Sub.L), Exists(f.BoundVar, f.Sub.R)), true
		}
		inner, changed := rewriteOnce(f.Sub)
		if changed {
			return Exists(f.BoundVar, inner), true
		}
		return f, false

	default:
		return f, false
	}
}

func freeIn(v string, f *Formula) bool {
	set := map[string]bool{}
	freeVarsInto(f, set)
	return set[v]
}
