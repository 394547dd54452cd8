package main

import "github.com/suraj-yadav-aiml/ctpipe/internal/cli"

func main() {
	cli.Execute()
}
