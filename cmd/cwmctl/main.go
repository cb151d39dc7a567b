package main

import "github.com/cwm-x11/cwm/cmd/cwmctl/commands"

func main() {
	commands.Execute()
}
