package lphash

import "go.uber.org/zap"

type options struct {
	cfg    Config
	hasher Hasher
	logger *zap.Logger
}

// Option overrides a single setting of the Config a Map is built from.
type Option func(*options)

func WithInitialCapacity(n int) Option {
	return func(o *options) { o.cfg.InitialCapacity = n }
}

func WithMaxLoad(load float64) Option {
	return func(o *options) { o.cfg.MaxLoad = load }
}

func WithGrowthFactor(factor int) Option {
	return func(o *options) { o.cfg.GrowthFactor = factor }
}

func WithProbeStrategy(p ProbeStrategy) Option {
	return func(o *options) { o.cfg.Probe = p }
}

// WithHasher replaces HashString. A nil hasher keeps the default.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// WithLogger receives resize events at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
