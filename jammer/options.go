package jammer

import "go.uber.org/zap"

// Options configures a Controller
type Options struct {
	Session Session
	Logger  *zap.Logger
}

// Option is a functional option for NewController
type Option func(*Options)

// WithSession sets the initial tuning and layout
func WithSession(s Session) Option {
	return func(o *Options) {
		o.Session = s
	}
}

// WithLogger sets the logger used for note and selection events
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func defaultOptions() *Options {
	return &Options{
		Session: DefaultSession,
		Logger:  zap.NewNop(),
	}
}
