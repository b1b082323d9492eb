package main

import "quanturnic/internal/cli"

func main() {
	cli.Execute()
}
