// Package config handles configuration loading for the shopfront server.
//
// # Overview
//
// Configuration starts from built-in defaults, is overlaid by an optional
// YAML file and finally by environment variables. Validation runs last.
//
// # Environment Variable Expansion
//
// YAML values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${SHOPFRONT_JWT_SECRET}"
//
// # Environment Overrides
//
// After the file is read, these variables override it when set:
//
//	HTTP_ADDR, STATIC_PATH, SHUTDOWN_TIMEOUT
//	API_KEYS (comma separated), JWT_SECRET, TOKEN_TTL, BCRYPT_COST
//	SESSION_BACKEND (memory, redis), REDIS_ADDR, REDIS_PREFIX
//	SESSION_TIMEOUT, SESSION_MAX_REQUESTS, SESSION_WINDOW, SESSION_JANITOR_INTERVAL
//	CATALOG_SOURCE (config, sqlite), CATALOG_DB_PATH
//	LOG_LEVEL (debug, info, warn, error), LOG_FORMAT (text, json)
//
// # Example
//
//	server:
//	  http_addr: ":8080"
//	  static_path: "./build"
//	  shutdown_timeout: "10s"
//	auth:
//	  api_keys: ["${SHOPFRONT_API_KEY}"]
//	session:
//	  backend: "memory"
//	  timeout: "30m"
//	  max_requests: 60
//	  window: "1m"
//	catalog:
//	  source: "config"
//	  items:
//	    - {id: ELC12, name: Wireless Headphones, category: Electronics, price: 99.99}
package config
