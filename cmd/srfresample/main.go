package main

import "github.com/RMahshie/srfresample/internal/cli"

func main() {
	cli.Execute()
}
