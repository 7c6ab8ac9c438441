package main

import "er-editor/internal/cli"

func main() {
	cli.Execute()
}
