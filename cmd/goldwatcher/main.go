package main

import "gram-gold-watch/internal/cli"

func main() {
	cli.Execute()
}
