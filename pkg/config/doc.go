// Package config resolves voxscribe settings.
//
// Precedence is defaults, then the optional TOML file, then environment
// variables. Credentials are only ever read from the environment (a .env
// file is loaded into the environment first when present).
package config
