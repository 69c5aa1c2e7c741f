package main

import "github.com/ngld/bootstrap/cmd"

func main() {
	cmd.Execute()
}
