package main

import "github.com/steph544/compliance-app-sub001/cmd"

func main() {
	cmd.Execute()
}
