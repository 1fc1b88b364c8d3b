package main

import "github.com/openauction/auctiond/internal/cli"

func main() {
	cli.Execute()
}
