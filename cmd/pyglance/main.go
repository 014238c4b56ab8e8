package main

import "pyglance/internal/cli"

func main() {
	cli.Execute()
}
