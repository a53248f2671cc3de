package ecsworld

import "go.uber.org/zap"

// Config holds global configuration for the ecsworld package, set once at
// program startup rather than threaded through every constructor.
var Config config = config{
	AssertionsEnabled: true,
	Logger:            zap.NewNop(),
	MaxListeners:      64,
}

type config struct {
	// AssertionsEnabled gates the presence checks (ComponentAlreadyPresent,
	// ComponentMissing, TagAlreadyPresent, TagMissing, ArrayAlreadyPresent,
	// ArrayMissing) in AddComponent/RemoveComponent, AddTag/RemoveTag and
	// CreateArray/DestroyArray. The EntityMissing check runs on every
	// mutating World operation regardless of this flag.
	AssertionsEnabled bool

	// Logger receives the package's diagnostics. The only message the
	// package logs is the warning issued when a listener slice reaches
	// MaxListeners. Defaults to a no-op logger.
	Logger *zap.Logger

	// MaxListeners is the per-event listener count at which registering
	// another listener logs a warning. Registration still succeeds past
	// it; the number of listeners is not capped.
	MaxListeners int
}

// SetLogger installs a structured logger for diagnostic output.
func (c *config) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.Logger = l
}
