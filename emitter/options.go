package emitter

type settings struct {
	onExpire func(key string)
}

// Option configures an Emitter.
type Option func(*settings)

// OnExpire registers fn to run when a one-shot listener of key times out,
// before its Future is rejected.
func OnExpire(fn func(key string)) Option {
	return func(s *settings) {
		s.onExpire = fn
	}
}
