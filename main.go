package main

import "github.com/naka-gawa/myimpact/cmd"

func main() {
	cmd.Execute()
}
