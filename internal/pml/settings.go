package pml

// ComparerSettings tunes presentation comparison. PositionTolerance,
// SizeTolerance and RotationTolerance are stored but not read by the
// shape diff, which always applies a 1% position/size tolerance and a
// 1 degree rotation tolerance.
type ComparerSettings struct {
	PositionTolerance float64 // fraction of EMU, e.g. 0.01 = 1%
	SizeTolerance     float64
	RotationTolerance float64 // degrees
	CoarseHashThreshold float64
	AlignSlidesByLCS    bool
	AnnotateSlides      bool
}

// Option configures a ComparerSettings.
type Option func(*ComparerSettings)

// NewSettings builds the default PML comparer settings: 1% geometry
// tolerance on position/size, 1 degree rotation tolerance, slide
// alignment via LCS (falls back to index pairing when disabled).
func NewSettings(opts ...Option) *ComparerSettings {
	s := &ComparerSettings{
		PositionTolerance:   0.01,
		SizeTolerance:       0.01,
		RotationTolerance:   1.0,
		CoarseHashThreshold: 0.60,
		AlignSlidesByLCS:    true,
		AnnotateSlides:      true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func WithGeometryTolerance(position, size, rotation float64) Option {
	return func(s *ComparerSettings) {
		s.PositionTolerance = position
		s.SizeTolerance = size
		s.RotationTolerance = rotation
	}
}

func WithCoarseHashThreshold(t float64) Option {
	return func(s *ComparerSettings) { s.CoarseHashThreshold = t }
}

func WithSlideAlignmentByLCS(enabled bool) Option {
	return func(s *ComparerSettings) { s.AlignSlidesByLCS = enabled }
}

func WithAnnotateSlides(enabled bool) Option {
	return func(s *ComparerSettings) { s.AnnotateSlides = enabled }
}
