package placement

// Options tunes the placement walk. Fractions are of the viewport height
// (Step, MinY, MaxY) or of the usable gutter width (InsetX, SpanX).
type Options struct {
	Step        float64 `toml:"step"`
	Attempts    int     `toml:"attempts"`
	Padding     float64 `toml:"padding"`
	JitterEvery int     `toml:"jitter_every"`
	MinY        float64 `toml:"min_y"`
	MaxY        float64 `toml:"max_y"`
	InsetX      float64 `toml:"inset_x"`
	SpanX       float64 `toml:"span_x"`

	// EnlargeChance is the probability a link renders with the enlarged
	// decoration. Zero disables it.
	EnlargeChance float64 `toml:"enlarge_chance"`

	// DimOpacity is applied to links left overlapping.
	DimOpacity float64 `toml:"dim_opacity"`
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		Step:          0.02,
		Attempts:      80,
		Padding:       6,
		JitterEvery:   12,
		MinY:          0.08,
		MaxY:          0.92,
		InsetX:        0.10,
		SpanX:         0.80,
		EnlargeChance: 0.15,
		DimOpacity:    0.45,
	}
}

// withDefaults fills zero fields from DefaultOptions. The zero Options is
// the stock tuning without enlargement. EnlargeChance and Padding are
// otherwise kept as given since zero is meaningful for both; a negative
// padding falls back to the default.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o == (Options{}) {
		d.EnlargeChance = 0
		return d
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.Attempts <= 0 {
		o.Attempts = d.Attempts
	}
	if o.Padding < 0 {
		o.Padding = d.Padding
	}
	if o.JitterEvery <= 0 {
		o.JitterEvery = d.JitterEvery
	}
	if o.MinY == 0 && o.MaxY == 0 {
		o.MinY, o.MaxY = d.MinY, d.MaxY
	}
	if o.InsetX == 0 && o.SpanX == 0 {
		o.InsetX, o.SpanX = d.InsetX, d.SpanX
	}
	if o.DimOpacity <= 0 || o.DimOpacity > 1 {
		o.DimOpacity = d.DimOpacity
	}
	return o
}
