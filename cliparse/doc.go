// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3320)
  - APIURL: FormGuard REST API base URL (default: http://localhost:3000)
  - DatabaseURL: Token store connection string (default: file:formguard.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DeviceSalt: Secret for signing the browser id cookie (required)
  - SecureCookies: Set the Secure attribute on cookies

# CLI Flags

	-p               Server port
	-api             API base URL
	-d               Database URL
	-t               Database type
	-device-salt     Device cookie salt
	-secure-cookies  true/false
	-c               YAML config file
	-env             dotenv file (default: .env)

# Precedence

CLI flags, then environment variables, then the YAML file, then defaults:

	PORT               → -p
	API_URL            → -api
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	DEVICE_COOKIE_SALT → -device-salt
	SECURE_COOKIES     → -secure-cookies

A .env file is loaded into the environment first; it never overrides
variables that are already set. A missing .env is not an error.

# YAML File

	port: 3320
	api_url: https://api.formguard.io
	database_type: postgres
	database_url: postgres://...
	device_salt: ...
	secure_cookies: true
*/
package cliparse
