package main

import "github.com/notargets/resim/cmd"

func main() {
	cmd.Execute()
}
