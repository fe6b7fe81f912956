package main

import "github.com/tidymark-labs/tidymark-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
