// Package main provides the rowgate CLI entry point.
package main

import "github.com/mesh-intelligence/rowgate/internal/cli"

func main() {
	cli.Execute()
}
