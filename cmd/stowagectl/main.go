package main

import "stowage/internal/cli"

func main() {
	cli.Execute()
}
