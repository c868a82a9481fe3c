package main

import "github.com/samuelfneumann/gridrl/cmd"

func main() {
	cmd.Execute()
}
