package main

// EvalRecord is one row of the evaluation log.
type EvalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	NavigableFrac float64 `csv:"navigable_frac"`
	BandEntropy   float64 `csv:"band_entropy"`
	BlockedFrac   float64 `csv:"blocked_frac"`

	HeightNoiseScale    float64 `csv:"height_noise_scale"`
	HeightPerlinScale   float64 `csv:"height_perlin_scale"`
	MaterialPerlinScale float64 `csv:"material_perlin_scale"`
	MaterialNoiseScale  float64 `csv:"material_noise_scale"`
	MaterialHeightBias  float64 `csv:"material_height_bias"`
	MaxSlopeDeg         float64 `csv:"max_slope_deg"`
}

// newEvalRecord fills a record from clamped parameter values in Specs
// order.
func newEvalRecord(eval int, fitness float64, m Metrics, v []float64) EvalRecord {
	return EvalRecord{
		Eval:                eval,
		Fitness:             fitness,
		NavigableFrac:       m.NavigableFrac,
		BandEntropy:         m.BandEntropy,
		BlockedFrac:         m.BlockedFrac,
		HeightNoiseScale:    v[0],
		HeightPerlinScale:   v[1],
		MaterialPerlinScale: v[2],
		MaterialNoiseScale:  v[3],
		MaterialHeightBias:  v[4],
		MaxSlopeDeg:         v[5],
	}
}
