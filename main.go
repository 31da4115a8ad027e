package main

import "github.com/pickscope/pickscope/cmd"

func main() {
	cmd.Execute()
}
