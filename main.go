package main

import "github.com/Tiliavir/chronos-timereg/cmd"

func main() {
	cmd.Execute()
}
