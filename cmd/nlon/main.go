package main

import "nlon/internal/cli"

func main() {
	cli.Execute()
}
