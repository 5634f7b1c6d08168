package main

import "github.com/xurtis/screencap/cmd/screencap/commands"

func main() {
	commands.Execute()
}
