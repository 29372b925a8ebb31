package main

import "github.com/pfrederiksen/soccer-cal/internal/cli"

func main() {
	cli.Execute()
}
