// Package api contains the HTTP server bindings generated from api/openapi.yaml.
package api

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --package=api --generate=types,chi-server -o api.gen.go ../../api/openapi.yaml
