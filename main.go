package main

import "github.com/bhaweshchaudhary/astra/cmd"

var version = "0.0.0-dev"

func main() {
	cmd.Execute(version)
}
