package main

import "listing-manager/cmd"

func main() {
	cmd.Execute()
}
