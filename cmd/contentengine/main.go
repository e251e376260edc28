package main

import "github.com/scaletotop/contentengine/internal/cli"

func main() {
	cli.Execute()
}
