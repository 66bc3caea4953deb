package main

import "github.com/LeoXLiu-DS/timesheet-logging/cmd"

func main() {
	cmd.Execute()
}
