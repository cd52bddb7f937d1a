package main

import "github.com/KaiEtkin/AutoMontage/internal/cli"

func main() {
	cli.Main()
}
