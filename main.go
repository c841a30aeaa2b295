package main

import "github.com/streamforge/bpctl/cmd"

func main() {
	cmd.Execute()
}
