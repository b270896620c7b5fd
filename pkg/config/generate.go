package config

import (
	toml "github.com/pelletier/go-toml/v2"

	"agentstow/pkg/errors"
)

// GenerateDefault renders the default configuration as TOML, suitable for
// seeding a .agentstow.toml at the source root.
func GenerateDefault() (string, error) {
	data, err := toml.Marshal(Default())
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal default config")
	}
	return string(data), nil
}
