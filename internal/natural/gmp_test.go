//go:build gmp

package natural

import (
	"math/rand"
	"testing"

	"github.com/ncw/gmp"
	"github.com/stretchr/testify/require"
)

// toGMP converts through the decimal string so that the check does not share
// any limb handling with the code under test.
func toGMP(t *testing.T, x Natural) *gmp.Int {
	t.Helper()
	z, ok := new(gmp.Int).SetString(x.String(), 10)
	require.True(t, ok)
	return z
}

func TestAgainstGMP(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for _, n := range []int{1, 10, 100, 1000, 5000} {
		for _, m := range []int{1, 7, 90, 2500} {
			x, y := randomNatural(n, r), randomNatural(m, r)
			gx, gy := toGMP(t, x), toGMP(t, y)

			require.Equal(t, new(gmp.Int).Mul(gx, gy).String(), x.Mul(y).String(), "Mul %d×%d", n, m)
			require.Equal(t, new(gmp.Int).Add(gx, gy).String(), x.Add(y).String(), "Add %d+%d", n, m)
			if y.IsZero() {
				continue
			}
			q, rem := x.DivMod(y)
			require.Equal(t, new(gmp.Int).Quo(gx, gy).String(), q.String(), "Quo %d/%d", n, m)
			require.Equal(t, new(gmp.Int).Rem(gx, gy).String(), rem.String(), "Rem %d/%d", n, m)
		}
	}
}
