package main

import "github.com/S4M1D4R3/YouTubeLiveClipper/internal/cli"

func main() {
	cli.Main()
}
