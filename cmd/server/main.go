package main

import "radio-go/internal/cli"

func main() {
	cli.Execute()
}
