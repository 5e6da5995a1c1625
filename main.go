package main

import "seed-manager/cmd"

func main() {
	cmd.Execute()
}
