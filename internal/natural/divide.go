package natural

import (
	"github.com/agbru/natcalc/internal/div"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// DivMod returns the quotient and remainder of x by y. It panics with
// apperrors.ErrDivisionByZero when y is 0.
func (x Natural) DivMod(y Natural) (q, r Natural) {
	if x.large == nil && y.large == nil {
		if y.small == 0 {
			panic(apperrors.ErrDivisionByZero)
		}
		return Natural{small: x.small / y.small}, Natural{small: x.small % y.small}
	}
	var bx, by [1]Limb
	a, b := x.vec(&bx), y.vec(&by)
	if len(b) == 0 {
		panic(apperrors.ErrDivisionByZero)
	}
	qs := make([]Limb, div.QuotientLen(len(a), len(b)))
	rs := make([]Limb, len(b))
	divider().DivMod(qs, rs, a, b)
	return fromVec(qs), fromVec(rs)
}

// Div returns the quotient of x by y without computing the remainder.
func (x Natural) Div(y Natural) Natural {
	if x.large == nil && y.large == nil {
		if y.small == 0 {
			panic(apperrors.ErrDivisionByZero)
		}
		return Natural{small: x.small / y.small}
	}
	var bx, by [1]Limb
	a, b := x.vec(&bx), y.vec(&by)
	if len(b) == 0 {
		panic(apperrors.ErrDivisionByZero)
	}
	qs := make([]Limb, div.QuotientLen(len(a), len(b)))
	divider().Div(qs, a, b)
	return fromVec(qs)
}

// Mod returns x mod y.
func (x Natural) Mod(y Natural) Natural {
	if y.large == nil {
		if y.small == 0 {
			panic(apperrors.ErrDivisionByZero)
		}
		if x.large == nil {
			return Natural{small: x.small % y.small}
		}
		return Natural{small: div.ModLimb(x.large, y.small)}
	}
	_, r := x.DivMod(y)
	return r
}

// DivRound returns x / y rounded with mode and how the result compares with
// the exact quotient.
func (x Natural) DivRound(y Natural, mode limbs.RoundingMode) (Natural, limbs.Ordering) {
	var bx, by [1]Limb
	q, ord := divider().DivRound(x.vec(&bx), y.vec(&by), mode)
	return fromVec(q), ord
}

// DivAssign sets x to x / y.
func (x *Natural) DivAssign(y Natural) {
	*x = x.Div(y)
}

// ModAssign sets x to x mod y.
func (x *Natural) ModAssign(y Natural) {
	*x = x.Mod(y)
}
