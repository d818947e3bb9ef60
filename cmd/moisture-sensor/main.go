package main

import "github.com/oshokin/moisture-sensor/cmd/moisture-sensor/cmd"

func main() {
	cmd.Execute()
}
