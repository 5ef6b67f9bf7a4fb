package main

import "github.com/NashTech-Labs/kafka-connect-client/internal/cli"

func main() {
	cli.Execute()
}
