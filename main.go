package main

import "github.com/vibast-solutions/ms-go-payment-core/cmd"

func main() {
	cmd.Execute()
}
