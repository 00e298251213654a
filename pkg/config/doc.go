// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Configuration is declared with struct tags understood by
// github.com/caarlos0/env and loaded once per type for the process lifetime:
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	config.MustLoad(&cfg)
package config
