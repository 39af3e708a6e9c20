package main

import "github.com/derickschaefer/gapview/cmd"

func main() {
	cmd.Execute()
}
