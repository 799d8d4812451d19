package main

import "github.com/RudolfRTC/AI-Research/internal/cli"

func main() {
	cli.Execute()
}
