// Package config loads datakit configuration with Viper.
//
// Values are read from a YAML file (config/<service>.yml, <service>.yml,
// config/config.yml or config.yml), then from an optional .env file, then from
// environment variables prefixed with the upper-cased service name:
//
//	DATAKIT_LOGGING_LEVEL=debug
//	DATAKIT_ANALYSIS_TRACING=true
//
// # Usage
//
//	cfg, err := config.Load(config.DefaultServiceName)
//	logger.Init(&cfg.Logging)
//	alg := algorithm.New("jobs", steps...)
//	out, err := alg.Run(ctx, input, algorithm.FromConfig(cfg.Analysis)...)
package config
