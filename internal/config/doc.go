// Package config defines the format-agnostic pipeline model for the
// application, along with the Loader interface for reading pipeline
// definitions from various sources.
//
// The `config.Model` is the single source of truth for the app's conversion
// run. The concrete HCL implementation of the Loader lives in a separate
// package.
package config
