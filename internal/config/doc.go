// Package config loads and saves the keywrap CLI configuration.
//
// The configuration is a TOML file, by default at
// $XDG_CONFIG_HOME/keywrap/config.toml:
//
//	verbose = false
//	debug = false
//	store_path = "/home/alice/.local/share/keywrap/store.toml"
//
// A missing file is not an error; defaults are used. Command-line flags
// override values read from the file.
package config
