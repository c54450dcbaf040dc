package main

import (
	_ "embed"

	"github.com/Vampire-js/techfiesta/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
