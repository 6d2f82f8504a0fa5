package main

import "github.com/vipinkashyap/go-guardian/internal/cli"

func main() {
	cli.Execute()
}
