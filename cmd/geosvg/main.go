package main

import "github.com/beetlebugorg/geosvg/cmd/geosvg/cmd"

func main() {
	cmd.Execute()
}
