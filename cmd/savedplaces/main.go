package main

import "github.com/pfrederiksen/savedplaces/internal/cli"

func main() {
	cli.Execute()
}
