package main

import "github.com/banachtech/spotted-zebra/cmd"

func main() {
	cmd.Execute()
}
