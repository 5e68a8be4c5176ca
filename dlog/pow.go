package dlog

import (
	"math/big"

	"github.com/blck-snwmn/numtheory/montgomery"
)

// powEngine wraps modular exponentiation mod n, using the Montgomery
// engine when n is odd (the common case for discrete-log moduli) and
// falling back to big.Int.Exp for the even moduli the Montgomery context
// itself refuses to support.
type powEngine struct {
	ctx *montgomery.Context // nil when n is even
	n   *big.Int
}

func newPowEngine(n *big.Int) *powEngine {
	ctx, err := montgomery.New(n)
	if err != nil {
		ctx = nil
	}
	return &powEngine{ctx: ctx, n: n}
}

func (p *powEngine) pow(base, exp *big.Int) *big.Int {
	if exp.Sign() < 0 {
		panic("dlog: negative exponent")
	}
	if p.ctx == nil {
		return new(big.Int).Exp(base, exp, p.n)
	}
	baseBar := p.ctx.ToMontgomery(new(big.Int).Mod(base, p.n))
	result := p.ctx.One()
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result = p.ctx.Square(result)
		if exp.Bit(i) == 1 {
			result = p.ctx.Mul(result, baseBar)
		}
	}
	return p.ctx.FromMontgomery(result)
}

func (p *powEngine) equalsOne(v *big.Int) bool {
	return v.Cmp(big.NewInt(1)) == 0
}
