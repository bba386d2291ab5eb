package main

import "github.com/deploymenttheory/go-bee/cmd"

func main() {
	cmd.Execute()
}
