// Command generate-golden writes the golden multiplication and division
// vectors used by the natural package tests. math/big is the oracle.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/natural/testdata/golden.json
package main

import (
	"flag"
	"fmt"
	"math/big"
	"math/rand"
	"os"

	"github.com/goccy/go-json"
)

// GoldenVersion is bumped when the file layout changes.
const GoldenVersion = 1

// MulVector is one product; numbers are lower-case hexadecimal.
type MulVector struct {
	A       string `json:"a"`
	B       string `json:"b"`
	Product string `json:"product"`
}

// DivVector is one division with quotient and remainder.
type DivVector struct {
	N         string `json:"n"`
	D         string `json:"d"`
	Quotient  string `json:"quotient"`
	Remainder string `json:"remainder"`
}

// GoldenFile is the document written to disk.
type GoldenFile struct {
	Version int         `json:"version"`
	Seed    int64       `json:"seed"`
	Mul     []MulVector `json:"mul"`
	Div     []DivVector `json:"div"`
}

// Operand sizes in bits. They straddle the default basecase, Toom and FFT
// crossovers for 64-bit limbs, and the divide-and-conquer division
// crossover.
var (
	mulShapes = [][2]int{{64, 64}, {200, 130}, {2000, 2000}, {8000, 3000}, {15000, 15000}, {40000, 12000}, {130000, 120000}}
	divShapes = [][2]int{{128, 64}, {4000, 2000}, {10000, 4100}, {40000, 9000}, {120000, 60000}}
)

// randomBits returns a random number of exactly bits bits.
func randomBits(rng *rand.Rand, bits int) *big.Int {
	x := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	return x.SetBit(x, bits-1, 1)
}

// allOnes returns 2^bits − 1.
func allOnes(bits int) *big.Int {
	x := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return x.Sub(x, big.NewInt(1))
}

func hex(x *big.Int) string { return x.Text(16) }

// buildVectors computes every vector for the given seed. Each shape gets a
// random pair and an all-ones pair, which maximizes carries.
func buildVectors(seed int64) GoldenFile {
	rng := rand.New(rand.NewSource(seed))
	g := GoldenFile{Version: GoldenVersion, Seed: seed}
	for _, s := range mulShapes {
		for _, pair := range [][2]*big.Int{
			{randomBits(rng, s[0]), randomBits(rng, s[1])},
			{allOnes(s[0]), allOnes(s[1])},
		} {
			p := new(big.Int).Mul(pair[0], pair[1])
			g.Mul = append(g.Mul, MulVector{A: hex(pair[0]), B: hex(pair[1]), Product: hex(p)})
		}
	}
	for _, s := range divShapes {
		for _, pair := range [][2]*big.Int{
			{randomBits(rng, s[0]), randomBits(rng, s[1])},
			{allOnes(s[0]), allOnes(s[1])},
		} {
			q, r := new(big.Int).QuoRem(pair[0], pair[1], new(big.Int))
			g.Div = append(g.Div, DivVector{N: hex(pair[0]), D: hex(pair[1]), Quotient: hex(q), Remainder: hex(r)})
		}
	}
	return g
}

func main() {
	out := flag.String("out", "internal/natural/testdata/golden.json", "Output file.")
	seed := flag.Int64("seed", 20240601, "Random seed.")
	flag.Parse()

	data, err := json.MarshalIndent(buildVectors(*seed), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}
