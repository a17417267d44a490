package main

import "github.com/itsmostafa/goshadow/cmd"

func main() {
	cmd.Execute()
}
