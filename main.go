package main

import "github.com/pivolan/etl_reporter/cmd"

func main() {
	cmd.Execute()
}
