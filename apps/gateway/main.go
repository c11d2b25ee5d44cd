package main

import "github.com/hasdev/api-gateway/apps/gateway/cmd"

func main() {
	cmd.Execute()
}
