package main

import "github.com/gerunddev/strapisync/internal/commands"

const version = "0.1.0"

func main() {
	commands.Execute(version)
}
