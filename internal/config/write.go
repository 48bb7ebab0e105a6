package config

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default returns a Config populated with every built-in default.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// WriteDefault writes a starting config with every default filled in.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return eris.Errorf("config: %s already exists", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "config: write file")
	}
	return nil
}
