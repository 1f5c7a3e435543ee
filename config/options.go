package config

type options struct {
	name string
	path string
}

// Option tweaks where New looks for the dotenv file.
type Option func(*options)

// WithFile reads name from dir instead of ./.env.
func WithFile(dir, name string) Option {
	return func(o *options) {
		o.path = dir
		o.name = name
	}
}
