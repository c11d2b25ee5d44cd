package main

import "github.com/hasdev/api-gateway/apps/gatewayctl/cmd"

func main() {
	cmd.Execute()
}
