package main

import "copy-environment/cmd"

func main() {
	cmd.Execute()
}
