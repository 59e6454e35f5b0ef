package main

import "github.com/atlasview/codeatlas/internal/cli"

func main() {
	cli.Execute()
}
