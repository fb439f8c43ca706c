package main

import "github.com/OpenTraceLab/OpenTraceFPGA/cmd/fpga/cmd"

func main() {
	cmd.Execute()
}
