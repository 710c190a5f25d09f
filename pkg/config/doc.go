// Package config loads the harness configuration.
//
// A configuration file is YAML (JSON is accepted too) decoded on top of
// Default. ${VAR} and ${VAR:-default} references are expanded before
// decoding, and CRUDCONTRACT_* environment variables override the result via
// ApplyEnv:
//
//	server:
//	  port: 8080
//	engine:
//	  strictAmbiguity: true
//	  fallback:
//	    status: 404
//	contract:
//	  baseUrl: ${USERS_API:-https://fakestoreapi.com}
//	  validator: openapi
//	  schemaRef: Users
//	stubFiles:
//	  - stubs/**/*.yaml
//
// Stub files hold either a single stub or a list of stubs.
package config
