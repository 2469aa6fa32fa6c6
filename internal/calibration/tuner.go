package calibration

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/natcalc/internal/config"
	"github.com/agbru/natcalc/internal/div"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/mul"
)

// TracerName is the instrumentation name of the calibration spans.
const TracerName = "github.com/agbru/natcalc/internal/calibration"

// DefaultRepetitions is the number of timed runs per method and size; the
// fastest run is kept.
const DefaultRepetitions = 5

// Measurement is the timing of both methods of a parameter at one size.
type Measurement struct {
	Parameter string        `json:"parameter"`
	Size      int           `json:"size"`
	Lower     time.Duration `json:"lower_ns"`
	Upper     time.Duration `json:"upper_ns"`
	Err       string        `json:"error,omitempty"`
}

// UpperWins reports whether the method above the crossover was at least as
// fast as the one below.
func (m Measurement) UpperWins() bool {
	return m.Err == "" && m.Upper <= m.Lower
}

// ParameterResult is the outcome of tuning one parameter.
type ParameterResult struct {
	Parameter    string
	Value        int
	Crossed      bool
	Measurements []Measurement
}

// Tuner measures threshold crossovers on the running machine.
type Tuner struct {
	base       config.Thresholds
	params     []Parameter
	quick      bool
	reps       int
	seed       int64
	logger     zerolog.Logger
	tracer     trace.Tracer
	candidates func(Parameter) []int
	names      []string
}

// Option configures a Tuner.
type Option func(*Tuner)

// WithLogger sets the logger of tuning progress.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tuner) { t.logger = l }
}

// WithTracer sets the tracer spans are recorded with. The default is the
// global otel tracer provider.
func WithTracer(tr trace.Tracer) Option {
	return func(t *Tuner) { t.tracer = tr }
}

// WithQuick selects the reduced candidate ladders.
func WithQuick(quick bool) Option {
	return func(t *Tuner) { t.quick = quick }
}

// WithRepetitions sets the number of timed runs per method and size.
func WithRepetitions(n int) Option {
	return func(t *Tuner) { t.reps = max(1, n) }
}

// WithSeed fixes the operand generator seed.
func WithSeed(seed int64) Option {
	return func(t *Tuner) { t.seed = seed }
}

// WithParameters restricts tuning to the named parameters. The others keep
// their base value.
func WithParameters(names ...string) Option {
	return func(t *Tuner) { t.names = names }
}

// WithCandidates replaces the candidate ladders.
func WithCandidates(f func(Parameter) []int) Option {
	return func(t *Tuner) { t.candidates = f }
}

// NewTuner returns a Tuner starting from base, which must be valid.
func NewTuner(base config.Thresholds, opts ...Option) (*Tuner, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	t := &Tuner{
		base:   base,
		reps:   DefaultRepetitions,
		seed:   1,
		logger: zerolog.Nop(),
		tracer: otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.candidates == nil {
		t.candidates = func(p Parameter) []int { return GenerateCandidates(p, t.quick) }
	}
	if len(t.names) == 0 {
		t.params = Parameters()
	} else {
		for _, name := range t.names {
			p, err := LookupParameter(name)
			if err != nil {
				return nil, err
			}
			t.params = append(t.params, p)
		}
	}
	return t, nil
}

// Run tunes every selected parameter in order and returns the per-parameter
// results together with the resulting table. A canceled context stops the
// run between measurements.
func (t *Tuner) Run(ctx context.Context) ([]ParameterResult, config.Thresholds, error) {
	ctx, span := t.tracer.Start(ctx, "calibration.Run",
		trace.WithAttributes(attribute.Int("parameters", len(t.params)), attribute.Bool("quick", t.quick)))
	defer span.End()

	gc := newGCPause(t.logger)
	gc.Begin()
	defer gc.End()

	th := t.base
	results := make([]ParameterResult, 0, len(t.params))
	for _, p := range t.params {
		res, err := t.tuneParameter(ctx, p, th)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return results, th, err
		}
		p.set(&th, res.Value)
		th = orderChain(th)
		results = append(results, res)
	}
	if err := th.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return results, th, err
	}
	span.SetAttributes(attribute.String("thresholds", th.String()))
	return results, th, nil
}

// orderChain raises the multiplication thresholds so that each is at least
// the one below it.
func orderChain(th config.Thresholds) config.Thresholds {
	th.Toom33 = max(th.Toom33, th.Toom22)
	th.Toom44 = max(th.Toom44, th.Toom33)
	th.Toom6h = max(th.Toom6h, th.Toom44)
	th.Toom8h = max(th.Toom8h, th.Toom6h)
	th.FFT = max(th.FFT, th.Toom8h)
	return th
}

func (t *Tuner) tuneParameter(ctx context.Context, p Parameter, th config.Thresholds) (ParameterResult, error) {
	ctx, span := t.tracer.Start(ctx, "calibration.tune", trace.WithAttributes(attribute.String("parameter", p.Name)))
	defer span.End()

	cands := t.candidates(p)
	res := ParameterResult{Parameter: p.Name, Value: p.get(th)}
	if len(cands) == 0 {
		return res, nil
	}
	res.Value = cands[len(cands)-1]
	rng := rand.New(rand.NewSource(t.seed))
	for _, n := range cands {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		m, err := t.measure(p, th, n, rng)
		if err != nil {
			m.Err = err.Error()
			t.logger.Warn().Err(err).Str("parameter", p.Name).Int("size", n).Msg("measurement skipped")
		}
		res.Measurements = append(res.Measurements, m)
		span.AddEvent("measurement", trace.WithAttributes(
			attribute.Int("size", n),
			attribute.Int64("lower_ns", m.Lower.Nanoseconds()),
			attribute.Int64("upper_ns", m.Upper.Nanoseconds())))
		if !res.Crossed && m.UpperWins() {
			res.Value, res.Crossed = n, true
		}
	}
	span.SetAttributes(attribute.Int("value", res.Value), attribute.Bool("crossed", res.Crossed))
	t.logger.Info().Str("parameter", p.Name).Int("value", res.Value).Bool("crossed", res.Crossed).Msg("threshold tuned")
	return res, nil
}

func (t *Tuner) measure(p Parameter, th config.Thresholds, n int, rng *rand.Rand) (Measurement, error) {
	m := Measurement{Parameter: p.Name, Size: n}
	var lower, upper func()
	var err error
	switch p.kind {
	case kindMul:
		lower, upper, err = mulPair(p, th, n, rng)
	default:
		lower, upper, err = divPair(p, th, n, rng)
	}
	if err != nil {
		return m, err
	}
	m.Lower = t.timeBest(lower)
	m.Upper = t.timeBest(upper)
	return m, nil
}

// timeBest runs f once untimed and returns its fastest timed run.
func (t *Tuner) timeBest(f func()) time.Duration {
	f()
	best := time.Duration(1<<63 - 1)
	for range t.reps {
		start := time.Now()
		f()
		best = min(best, time.Since(start))
	}
	return best
}

func randomVec(n int, rng *rand.Rand) []limbs.Limb {
	xs := make([]limbs.Limb, n)
	for i := range xs {
		xs[i] = limbs.Limb(rng.Uint64())
	}
	return xs
}

// mulPair returns the two top-level multiplications of p on n×n operands.
func mulPair(p Parameter, th config.Thresholds, n int, rng *rand.Rand) (lower, upper func(), err error) {
	mu, err := mul.New(th)
	if err != nil {
		return nil, nil, err
	}
	if !mu.Supports(p.Lower, n, n) || !mu.Supports(p.Upper, n, n) {
		return nil, nil, apperrors.NewConfigError("%s/%s cannot multiply %d×%d limbs", p.Lower, p.Upper, n, n)
	}
	xs, ys := randomVec(n, rng), randomVec(n, rng)
	out := make([]limbs.Limb, 2*n)
	scratch := make([]limbs.Limb, max(mu.ScratchLenWith(p.Lower, n, n), mu.ScratchLenWith(p.Upper, n, n)))
	run := func(alg mul.Algorithm) func() {
		return func() { _, _ = mu.MulWith(alg, out, xs, ys, scratch) }
	}
	return run(p.Lower), run(p.Upper), nil
}

// divPair returns the schoolbook and divide-and-conquer kernels dividing 2n
// limbs by a normalized n-limb divisor, with the crossover under test set
// to n.
func divPair(p Parameter, th config.Thresholds, n int, rng *rand.Rand) (lower, upper func(), err error) {
	p.set(&th, n)
	mu, err := mul.New(th)
	if err != nil {
		return nil, nil, err
	}
	dv := div.New(mu)
	ds := randomVec(n, rng)
	ds[n-1] |= 1 << (limbs.W - 1)
	ns := randomVec(2*n, rng)
	inv := div.InvertPi1(ds[n-1], ds[n-2])
	work := make([]limbs.Limb, 2*n)
	qs := make([]limbs.Limb, n)

	if p.kind == kindDivApprox {
		scratch := make([]limbs.Limb, dv.ApproxScratchLen(2*n, n))
		lower = func() { copy(work, ns); div.DivSchoolbookApprox(qs, work, ds, inv) }
		upper = func() { copy(work, ns); dv.DivDivideAndConquerApprox(qs, work, ds, inv, scratch) }
		return lower, upper, nil
	}
	scratch := make([]limbs.Limb, dv.DivScratchLen(2*n, n))
	lower = func() { copy(work, ns); div.DivSchoolbook(qs, work, ds, inv) }
	upper = func() { copy(work, ns); dv.DivDivideAndConquer(qs, work, ds, inv, scratch) }
	return lower, upper, nil
}
