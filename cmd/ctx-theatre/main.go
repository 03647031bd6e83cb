package main

import "github.com/pfrederiksen/ctx-theatre/internal/cli"

func main() {
	cli.Execute()
}
