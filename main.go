package main

import "github.com/ethanolivertroy/eso-addons/cmd"

func main() {
	cmd.Execute()
}
