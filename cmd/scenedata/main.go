package main

import "addrscene/internal/cli"

func main() {
	cli.Execute()
}
