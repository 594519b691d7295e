package main

import "github.com/procflow-labs/procflow-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
