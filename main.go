package main

import "smartbudget/cmd"

func main() {
	cmd.Execute()
}
