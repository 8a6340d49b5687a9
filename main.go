package main

import "github.com/BenWilson850/00-850-Code-Rev1/cmd"

func main() {
	cmd.Execute()
}
