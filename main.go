package main

import "github.com/xvierd/fast-cli/cmd"

func main() {
	cmd.Execute()
}
