// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4270)
  - DatabaseURL: Connection string (required)
  - DatabaseType: "postgres" (default) or "sqlite"
  - FingerprintSalt: Secret for anonymous voter fingerprint hashing (required)
  - OperatorKey: Platform operator force-close key (optional)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-fingerprint-salt Voter fingerprint salt
	-operator-key     Operator override key

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	FINGERPRINT_SALT → -fingerprint-salt
	OPERATOR_KEY     → -operator-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be postgres or sqlite
  - FINGERPRINT_SALT must be provided

OPERATOR_KEY may be omitted; the force-close override is then disabled.
*/
package cliparse
