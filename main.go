package main

import "github.com/sarahyurick/Curator/cmd"

func main() {
	cmd.Execute()
}
