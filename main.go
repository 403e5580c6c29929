package main

import "energy-insights/cmd"

func main() {
	cmd.Execute()
}
