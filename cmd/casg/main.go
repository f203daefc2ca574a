package main

import "github.com/stauffenbits/casg/internal/cli"

func main() {
	cli.Execute()
}
