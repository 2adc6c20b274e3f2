package main

import "agrolens/internal/cli"

func main() {
	cli.Execute()
}
