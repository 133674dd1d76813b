package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fogland/config"
	"github.com/pthm-cable/fogland/game"
	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/telemetry"
	"github.com/pthm-cable/fogland/terrain"
)

// Objective weights. Lower fitness is better.
const (
	navWeight       = 4.0
	diversityWeight = 1.0
	blockedWeight   = 2.0
)

// Metrics summarizes one evaluation.
type Metrics struct {
	NavigableFrac float64 // navigable tiles / surveyed tiles
	BandEntropy   float64 // material band entropy, normalized to [0,1]
	BlockedFrac   float64 // mean fraction of stuck units per stats window
}

// FitnessEvaluator surveys terrain and runs short headless simulations for
// each seed.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	seeds      []int64
	radius     int     // survey covers (2*radius+1)^2 chunks
	ticks      int32   // simulation length per seed (0 = survey only)
	targetNav  float64 // desired navigable fraction

	mu          sync.Mutex
	lastMetrics Metrics
}

// NewFitnessEvaluator creates an evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, radius int, ticks int32, targetNav float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		seeds:      seeds,
		radius:     radius,
		ticks:      ticks,
		targetNav:  targetNav,
	}
}

// LastMetrics returns the seed-averaged metrics of the most recent
// evaluation.
func (fe *FitnessEvaluator) LastMetrics() Metrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate scores raw parameter values. Seeds run in parallel; an invalid
// configuration scores +Inf.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	cfg := *fe.baseConfig
	if err := fe.params.ApplyToConfig(&cfg, x); err != nil {
		return math.Inf(1)
	}

	results := make([]Metrics, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.evaluateSeed(ctx, cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var avg Metrics
	for i, r := range results {
		if errs[i] != nil {
			return math.Inf(1)
		}
		avg.NavigableFrac += r.NavigableFrac
		avg.BandEntropy += r.BandEntropy
		avg.BlockedFrac += r.BlockedFrac
	}
	n := float64(len(fe.seeds))
	avg.NavigableFrac /= n
	avg.BandEntropy /= n
	avg.BlockedFrac /= n

	fe.mu.Lock()
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return fe.score(avg)
}

// score combines metrics into a fitness value.
func (fe *FitnessEvaluator) score(m Metrics) float64 {
	d := m.NavigableFrac - fe.targetNav
	return navWeight*d*d + blockedWeight*m.BlockedFrac - diversityWeight*m.BandEntropy
}

// evaluateSeed surveys the terrain around the origin and, when ticks is
// set, runs a headless simulation on the same world.
func (fe *FitnessEvaluator) evaluateSeed(ctx context.Context, cfg config.Config, seed int64) (Metrics, error) {
	cfg.World.Seed = uint32(seed)
	m, err := fe.survey(ctx, &cfg)
	if err != nil {
		return Metrics{}, err
	}
	if fe.ticks <= 0 {
		return m, nil
	}
	m.BlockedFrac, err = fe.simulate(ctx, &cfg, seed)
	return m, err
}

// survey generates the chunks around the origin and measures
// navigability and material band spread.
func (fe *FitnessEvaluator) survey(ctx context.Context, cfg *config.Config) (Metrics, error) {
	grid, err := terrain.NewGridFromConfig(cfg)
	if err != nil {
		return Metrics{}, fmt.Errorf("creating grid: %w", err)
	}
	cs := cfg.World.ChunkSize
	var positions []geom.Vec2
	for y := -fe.radius; y <= fe.radius; y++ {
		for x := -fe.radius; x <= fe.radius; x++ {
			positions = append(positions, geom.V2((float64(x)+0.5)*cs, (float64(y)+0.5)*cs))
		}
	}
	if _, err := grid.GenerateBatch(ctx, positions); err != nil {
		return Metrics{}, err
	}

	mpb := cfg.Biome.MaterialsPerBiome
	hist := make([]float64, config.MaterialBands)
	var navigable, total float64
	for _, c := range grid.Chunks() {
		for idx, ok := range c.Navigable {
			if ok {
				navigable++
			}
			hist[int(c.Materials[idx])%mpb]++
			total++
		}
	}
	if total == 0 {
		return Metrics{}, nil
	}
	floats.Scale(1/floats.Sum(hist), hist)
	return Metrics{
		NavigableFrac: navigable / total,
		BandEntropy:   stat.Entropy(hist) / math.Log(float64(len(hist))),
	}, nil
}

// simulate runs a headless game and returns the mean fraction of blocked
// units across its stats windows.
func (fe *FitnessEvaluator) simulate(ctx context.Context, cfg *config.Config, seed int64) (float64, error) {
	var blocked []float64
	g, err := game.NewGame(ctx, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(s telemetry.WindowStats) {
			if s.Units > 0 {
				blocked = append(blocked, float64(s.UnitsBlocked)/float64(s.Units))
			}
		},
	})
	if err != nil {
		return 0, err
	}
	defer g.Unload()

	for g.Tick() < fe.ticks {
		if err := g.UpdateHeadless(ctx); err != nil {
			return 0, err
		}
	}
	if len(blocked) == 0 {
		return 0, nil
	}
	return stat.Mean(blocked, nil), nil
}
