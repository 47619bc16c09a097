// Package config loads the schoolcal configuration file.
//
// # Overview
//
// schoolcal reads a small TOML file describing where the schedule service
// lives, where the access token and log file are kept, and which school or
// region to show when the user has nothing saved.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/schoolcal/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	api_base = "127.0.0.1:8080"
//	token_file = "~/.config/schoolcal/token"
//	log_file = "~/.local/state/schoolcal/schoolcal.log"
//	log_level = "info"            # debug, info, warn, error
//	log_format = "console"        # console or json
//	request_timeout_seconds = 5
//	default_school = "가락중학교"
//	default_region = "서울특별시 강남구"
//	default_region_code = "1"
//	default_address = "서울특별시 송파구 송이로 45"
//
// Every field is optional. Values are whitespace-trimmed and paths get tilde
// expansion. The default_* fields are left empty when unset so the view
// synchronizer applies its own stock fallbacks.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors and unknown log_level or log_format values. A missing file is
// not an error.
package config
