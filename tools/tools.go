//go:build tools
// +build tools

// Package tools pins development tool dependencies in go.mod.
package tools

// mockgen regenerates internal/mocks: go generate ./internal/mocks
import _ "go.uber.org/mock/mockgen"

// Other development tools (install via `go install`):
//
// Air - Live reload for Go apps
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
