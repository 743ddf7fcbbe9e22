package presburger

// LinearForm is the result of linearizing an atomic LessEqual(L,R) node into
// "Σ coeffs[v]·v ≤ b". Variables with coefficient 0 are absent from coeffs.
type LinearForm struct {
	B      int
	Coeffs map[string]int
}

// Linearize computes the LinearForm for a LessEqual(L,R) atom. It returns a
// SemanticError if f is not a LessEqual node.
func Linearize(f *Formula) (LinearForm, error) {
	if f == nil || f.Kind != FLessEqual {
		return LinearForm{}, SemanticError{Message: "linearize requires a LessEqual node"}
	}
	lf := LinearForm{Coeffs: map[string]int{}}
	var b int
	countTerm(f.Left, 1, lf.Coeffs, &b)
	countTerm(f.Right, -1, lf.Coeffs, &b)
	lf.B = b
	for v, c := range lf.Coeffs {
		if c == 0 {
			delete(lf.Coeffs, v)
		}
	}
	return lf, nil
}

// countTerm traverses t with scaling factor sign, accumulating variable
// coefficients into coeffs and the residual constant into b. The residual
// constant is defined so that, after traversal of both sides of a
// LessEqual(L,R) with sign +1 for L and -1 for R, b is the amount that must
// remain on the right: L ≤ R ⟺ Σ coeffs[v]·v ≤ b.
func countTerm(t *Term, sign int, coeffs map[string]int, b *int) {
	if t == nil {
		return
	}
	switch t.Kind {
	case TermZero:
		// contributes nothing
	case TermOne:
		*b -= sign
	case TermConst:
		*b -= sign * t.Value
	case TermVar:
		coeffs[t.Name] += sign
	case TermMult:
		coeffs[t.Name] += sign * t.Coeff
	case TermAdd:
		countTerm(t.Left, sign, coeffs, b)
		countTerm(t.Right, sign, coeffs, b)
	case TermSub:
		countTerm(t.Left, sign, coeffs, b)
		countTerm(t.Right, -sign, coeffs, b)
	}
}
