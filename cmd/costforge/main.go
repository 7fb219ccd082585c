package main

import "github.com/costforge/costforge/cmd/costforge/commands"

func main() {
	commands.Execute()
}
