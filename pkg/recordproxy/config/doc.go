/*
Package config loads the documents and settings recordproxy runs from.

# Documents

Config wraps a decoded YAML or JSON document and offers typed lookups that
fall back to a default on missing keys or type mismatches:

	cfg, err := config.Load("note.yaml")
	if err != nil {
	    return err
	}
	timeout := cfg.Duration("timeout", 5*time.Second)
	root := cfg.String("url_root", "/records")

Duration accepts strings ("30s") and numbers of seconds. JSON documents
are decoded by the YAML decoder, so numbers come back as int where whole.

# Fixtures

A Fixture is the record description the CLI builds records from: URL root,
id attribute, required attributes, defaults and initial attributes.
LoadFixture reads one from disk; ParseFixture reads one from a Config.

# Environment

LoadEnv reads RECORDPROXY_STORE, RECORDPROXY_DB, RECORDPROXY_URL_ROOT and
RECORDPROXY_LOG_LEVEL with github.com/caarlos0/env.
*/
package config
