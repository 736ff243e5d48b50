package main

import "github.com/secagent/secagent/cmd"

func main() {
	cmd.Execute()
}
