package main

import "github.com/ehsanranjbar/treeflat/cmd/treeflat/cmd"

func main() {
	cmd.Execute()
}
