package main

import "calendar-reconciler/cmd"

func main() {
	cmd.Execute()
}
