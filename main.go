package main

import "github.com/jsphweid/phonomidi/cmd"

func main() {
	cmd.Execute()
}
