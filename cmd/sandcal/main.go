package main

import "github.com/txbeach/sandcal/internal/cli"

func main() {
	cli.Execute()
}
