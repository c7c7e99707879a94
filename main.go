package main

import "github.com/jsphweid/fugue/cmd"

func main() {
	cmd.Execute()
}
