// Package config loads and stores the rtl433 tool configuration.
//
// Configuration lives in a single YAML file. Everything has a working
// default, so the file is optional: running without one decodes to
// JSON lines on stdout with the stream server disabled.
//
// The default location follows platform conventions
// ($XDG_CONFIG_HOME/rtl433/config.yaml on Linux) and can be overridden
// per invocation with the --config flag.
package config
