package main

import "github.com/classpulse/classpulse-cli/cmd"

func main() {
	cmd.Execute()
}
