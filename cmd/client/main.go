package main

import "vitaltrack/cmd/client/cmd"

func main() {
	cmd.Execute()
}
