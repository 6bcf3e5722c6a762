// Package config loads the server configuration.
//
// Values come from, in increasing precedence: built-in defaults, an
// optional YAML/TOML/JSON file, and RECIPES_* environment variables. Nested
// keys map to variables by upper-casing and replacing dots with
// underscores, so upload.max_file_size is RECIPES_UPLOAD_MAX_FILE_SIZE.
//
//	server:
//	  addr: ":8080"
//	upload:
//	  max_file_size: 10485760
//	  allowed_types: ["image/*", "application/pdf"]
//	log:
//	  level: debug
//	  format: json
package config
