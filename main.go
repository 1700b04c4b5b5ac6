package main

import "github.com/riftlens/riftlens/cmd"

func main() {
	cmd.Execute()
}
