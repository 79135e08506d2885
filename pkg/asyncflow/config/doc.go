/*
Package config loads emitter settings from files and the environment.

# Overview

Settings carries the knobs an application usually wants to change without a
rebuild: the listener leak threshold, the log level, whether metrics and
tracing are on, and where the emission journal lives.

	settings, err := config.FromFile("asyncflow.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	logger := settings.Logger(os.Stderr)
	emitter := event.New(settings.Options(logger)...)

# Sources

FromYAML and FromJSON decode over Default, so omitted keys keep their default
values. FromFile picks the decoder by extension (.yaml, .yml, .json).

FromEnv reads ASYNCFLOW_* variables after loading any .env files with
godotenv. Variables already present in the process environment win over
.env values.

	ASYNCFLOW_MAX_LISTENERS=25
	ASYNCFLOW_LOG_LEVEL=debug
	ASYNCFLOW_METRICS=true
	ASYNCFLOW_TRACING=false
	ASYNCFLOW_JOURNAL_PATH=./emissions.db

# Validation

Every loader validates the result. Failures wrap ErrInvalidSettings and name
each offending field.
*/
package config
