package main

import "dump-migrate/cmd"

func main() {
	cmd.Execute()
}
