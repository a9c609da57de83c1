package main

import "github.com/devandanger/firebase-utils/cmd"

func main() {
	cmd.Execute()
}
