package main

import "tululu/cmd"

func main() {
	cmd.Execute()
}
